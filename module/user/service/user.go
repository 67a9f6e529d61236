package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	usermodel "snappy/module/user/model"
	security "snappy/tools/security"
)

// Sentinel errors surfaced to the HTTP layer.
var (
	ErrUsernameTaken  = errors.New("username already used")
	ErrEmailTaken     = errors.New("email already used")
	ErrBadCredentials = errors.New("incorrect username or password")
)

// Service is the identity collaborator: it turns credentials into the stable
// user identity the gateway's identify event carries. The relay core never
// touches credentials.
type Service struct {
	coll *mongo.Collection
	jwt  security.Options
}

func New(db *mongo.Database, jwtOpts security.Options) *Service {
	return &Service{coll: db.Collection(usermodel.Collection), jwt: jwtOpts}
}

// Register creates an account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, username, email, password string) (usermodel.User, error) {
	if err := s.coll.FindOne(ctx, bson.M{"username": username}).Err(); err == nil {
		return usermodel.User{}, ErrUsernameTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return usermodel.User{}, errors.Wrap(err, "username check")
	}
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Err(); err == nil {
		return usermodel.User{}, ErrEmailTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return usermodel.User{}, errors.Wrap(err, "email check")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return usermodel.User{}, errors.Wrap(err, "hash password")
	}

	u := usermodel.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Status:   "Available",
		LastSeen: time.Now(),
	}
	res, err := s.coll.InsertOne(ctx, u)
	if err != nil {
		return usermodel.User{}, errors.Wrap(err, "insert user")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	u.Password = ""
	return u, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (usermodel.User, string, error) {
	var u usermodel.User
	err := s.coll.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return usermodel.User{}, "", ErrBadCredentials
	}
	if err != nil {
		return usermodel.User{}, "", errors.Wrap(err, "find user")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return usermodel.User{}, "", ErrBadCredentials
	}

	token, _, err := security.Generate(s.jwt, u.ID.Hex())
	if err != nil {
		return usermodel.User{}, "", errors.Wrap(err, "issue token")
	}

	_, _ = s.coll.UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{"last_seen": time.Now()}})
	u.Password = ""
	return u, token, nil
}

// AllUsers lists every account except the caller, for the contact roster.
func (s *Service) AllUsers(ctx context.Context, excludeID string) ([]usermodel.User, error) {
	filter := bson.M{}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "find users")
	}
	defer cur.Close(ctx)

	var out []usermodel.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	for i := range out {
		out[i].Password = ""
	}
	return out, nil
}

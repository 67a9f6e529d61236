package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"

	"snappy/global"
	"snappy/logger"
	mid "snappy/middleware"
	messagemod "snappy/module/message"
	usermod "snappy/module/user"
	userservice "snappy/module/user/service"
	"snappy/service/chat"
	"snappy/service/chat/handlers"
	"snappy/service/mgo"
	"snappy/service/storage"
	"snappy/tools/ids"
	security "snappy/tools/security"
)

func main() {
	cfg, err := global.Load()
	if err != nil {
		logger.Errorf("config: %v", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)
	ids.SetNodeID(cfg.NodeID)

	jwtOpts := security.DefaultOptions([]byte(cfg.JWTSecret))
	jwtOpts.TTL = cfg.JWTTTL

	opts := chat.Options{
		SendQueueSize: cfg.SendQueueSize,
		FanoutWorkers: cfg.FanoutWorkers,
		FanoutQueue:   cfg.FanoutQueue,
	}

	// Optional collaborators: the gateway runs without redis or mongo, it
	// just loses the mirror and durable history.
	if cfg.RedisAddr != "" {
		mirror, err := storage.NewMirror(storage.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, "gw-"+ids.GenerateString(), cfg.PresenceTTL)
		if err != nil {
			logger.Errorf("redis: %v", err)
			os.Exit(1)
		}
		defer mirror.Close()
		opts.Mirror = mirror
	}

	r := gin.New()
	r.Use(gin.Recovery(), mid.CORS())

	if cfg.MongoURI != "" {
		db, err := mgo.Connect(context.Background(), mgo.Config{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
			Timeout:  cfg.MongoTimeout,
		})
		if err != nil {
			logger.Errorf("mongo: %v", err)
			os.Exit(1)
		}

		msgStore := messagemod.NewStore(db)
		opts.Store = msgStore

		userHandler := usermod.NewHandler(userservice.New(db, jwtOpts))
		auth := r.Group("/api/auth")
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
		auth.GET("/allusers/:id", mid.Auth(jwtOpts), userHandler.AllUsers)

		msgHandler := messagemod.NewHandler(msgStore)
		msgs := r.Group("/api/messages", mid.Auth(jwtOpts))
		msgs.POST("/addmsg", msgHandler.AddMessage)
		msgs.POST("/getmsg", msgHandler.GetMessages)
	} else {
		logger.Warn("mongo not configured, auth and history endpoints disabled")
	}

	srv := chat.NewServer(opts)
	defer srv.Close()
	handlers.Bootstrap(srv)
	r.GET("/ws", srv.HandleWS)

	logger.Infof("[http] listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Errorf("http server: %v", err)
		os.Exit(1)
	}
}

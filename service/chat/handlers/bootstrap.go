package handlers

import "snappy/service/chat"

// Bootstrap wires every frame handler into the server's dispatcher.
func Bootstrap(s *chat.Server) {
	s.Use(NewIdentifyHandler())
	s.Use(NewMessageHandler())
	s.Use(NewTypingHandler())
	s.Use(NewPingHandler())
}

package services

import (
	"encoding/json"
	"log"
	"time"

	"blog/pkg/rabbitmq"
)

// Activity event routing keys.
const (
	EventPostCreated    = "post.created"
	EventPostUpdated    = "post.updated"
	EventPostDeleted    = "post.deleted"
	EventCommentAdded   = "comment.added"
	EventCommentUpdated = "comment.updated"
	EventCommentDeleted = "comment.deleted"
	EventPostLiked      = "post.liked"
	EventPostUnliked    = "post.unliked"
)

// EventPublisher sends a message to an exchange. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Event is the JSON body of an activity message.
type Event struct {
	Type       string    `json:"type"`
	ActorID    string    `json:"actor_id"`
	PostID     string    `json:"post_id,omitempty"`
	Slug       string    `json:"slug,omitempty"`
	CommentID  string    `json:"comment_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// emitter publishes best-effort: failures are logged, never returned.
type emitter struct {
	publisher EventPublisher
}

func (e emitter) emit(evt Event) {
	if e.publisher == nil {
		return
	}
	body, err := json.Marshal(evt)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", evt.Type, err)
		return
	}
	if err := e.publisher.Publish(rabbitmq.EventsExchange, evt.Type, body); err != nil {
		log.Printf("Failed to publish %s event: %v", evt.Type, err)
	}
}

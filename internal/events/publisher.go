// Package events publishes post engagement events for downstream consumers
// such as notification or feed services.
package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	PostCreated        = "posts.created"
	PostDeleted        = "posts.deleted"
	PostLiked          = "posts.liked"
	PostUnliked        = "posts.unliked"
	PostCommented      = "posts.commented"
	PostCommentDeleted = "posts.comment_deleted"
)

type Event struct {
	Type      string    `json:"type"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	CommentID string    `json:"comment_id,omitempty"`
	At        time.Time `json:"at"`
}

func New(eventType, postID, userID string) Event {
	return Event{Type: eventType, PostID: postID, UserID: userID, At: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close()
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close()                                {}

// NatsPublisher publishes each event as JSON on a subject named after its type.
type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(url string) (*NatsPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("devconnect-api"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[events] NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[events] NATS reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS at %s", nc.ConnectedUrl())
	return &NatsPublisher{conn: nc}, nil
}

func (p *NatsPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.conn.Publish(e.Type, data)
}

// Close flushes buffered events before closing the connection.
func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		log.Printf("[events] NATS drain: %v", err)
	}
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() {}

// Types returns the recorded event types in publish order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

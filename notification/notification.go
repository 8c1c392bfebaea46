package notification

import (
	"context"
	"sync"
	"time"

	redis "WardCare360/config/redis"

	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const Channel = "wardcare:notifications"

type Notification struct {
	RecipientID   string    `json:"recipientId"`
	RecipientType string    `json:"recipientType"`
	Event         string    `json:"event"`
	PatientID     string    `json:"patientId,omitempty"`
	AdmissionID   string    `json:"admissionId,omitempty"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Notifier is fire-and-forget: delivery failures are logged, never returned.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type RedisNotifier struct {
	client *goredis.Client
}

func NewRedisNotifier(client *goredis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (r *RedisNotifier) Notify(ctx context.Context, n Notification) {
	if err := redis.Publish(ctx, r.client, Channel, n); err != nil {
		log.WithFields(log.Fields{"event": n.Event, "recipientId": n.RecipientID}).Println("Error while publishing notification: ", err)
	}
}

type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) {
	log.WithFields(log.Fields{
		"event":       n.Event,
		"recipientId": n.RecipientID,
		"patientId":   n.PatientID,
		"admissionId": n.AdmissionID,
	}).Info(n.Message)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(ctx context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

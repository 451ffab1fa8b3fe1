package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"rackplan-backend/internal/model"
)

// PlanUpdate is one committed floor-plan mutation worth announcing.
type PlanUpdate struct {
	FloorPlanID int64
	Version     int64
}

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans plan-update events out to web-push subscribers, so open
// viewers learn the plan moved past the version they loaded.
type WorkerPool struct {
	size    int
	jobs    chan PlanUpdate
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan PlanUpdate, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case update := <-wp.jobs:
			wp.notifyPlanSubscribers(ctx, update)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a plan update for delivery. It blocks only while the
// buffer is full.
func (wp *WorkerPool) Dispatch(update PlanUpdate) {
	wp.jobs <- update
}

// notifyPlanSubscribers fetches the plan's subscribers and pushes the update.
func (wp *WorkerPool) notifyPlanSubscribers(ctx context.Context, update PlanUpdate) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_plan_mapping spm ON spm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("spm.floor_plan_id = ?", update.FloorPlanID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for plan %d: %v", update.FloorPlanID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	planLabel := fmt.Sprintf("%d", update.FloorPlanID)
	var plan model.FloorPlan
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&plan, update.FloorPlanID).Error; err != nil {
		log.Printf("Error fetching plan %d: %v", update.FloorPlanID, err)
	} else if plan.Name != "" {
		planLabel = plan.Name
	}

	payload, err := json.Marshal(map[string]any{
		"floorPlanId": update.FloorPlanID,
		"name":        planLabel,
		"version":     update.Version,
		"message":     fmt.Sprintf("Floor plan %s was updated to version %d", planLabel, update.Version),
	})
	if err != nil {
		log.Printf("Error encoding payload for plan %d: %v", update.FloorPlanID, err)
		return
	}

	log.Printf("Sending %d notifications for plan %d (version %d)", len(subscriptions), update.FloorPlanID, update.Version)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Push services answer 410 for subscriptions that no longer exist.
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Select("FloorPlans").Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}

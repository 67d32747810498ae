package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/random0602/DailyGlow/broker"
	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/models"

	"gorm.io/gorm/clause"
)

const eventBatchSize = 100

type EventHandlerServiceInterface interface {
	Start()
	Stop()
	ProcessPendingEvents() int
}

// EventHandlerService drains the outbox table onto the broker.
type EventHandlerService struct {
	db        *database.Database
	publisher broker.Publisher
	interval  time.Duration

	mu        sync.Mutex
	isRunning bool
	stopChan  chan struct{}
	done      chan struct{}
}

func NewEventHandlerService(db *database.Database, publisher broker.Publisher) *EventHandlerService {
	return &EventHandlerService{
		db:        db,
		publisher: publisher,
		interval:  time.Second,
	}
}

func (s *EventHandlerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stopChan, s.done)
	log.Println("Event handler service started")
}

func (s *EventHandlerService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()

	<-done
	log.Println("Event handler service stopped")
}

func (s *EventHandlerService) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.ProcessPendingEvents()
		}
	}
}

// ProcessPendingEvents publishes one batch of undispatched events in
// insertion order and reports how many were dispatched. Events that fail
// to publish stay pending and are retried on the next pass.
func (s *EventHandlerService) ProcessPendingEvents() int {
	var events []models.Event
	if err := s.db.DB.Where("dispatched = ?", false).Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).Limit(eventBatchSize).Find(&events).Error; err != nil {
		log.Printf("Error fetching events: %v", err)
		return 0
	}

	if len(events) > 0 {
		log.Printf("Found %d pending events to process", len(events))
	}

	dispatched := 0
	for _, event := range events {
		if err := s.dispatchEvent(event); err != nil {
			log.Printf("Error dispatching event %s: %v", event.ID, err)
			continue
		}
		dispatched++
	}
	return dispatched
}

func (s *EventHandlerService) dispatchEvent(event models.Event) error {
	subject := broker.SubjectForEntity(event.Entity)

	jsonData, err := json.Marshal(event.Envelope())
	if err != nil {
		return err
	}

	if err := s.publisher.Publish(subject, jsonData); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.db.DB.Model(&event).Updates(map[string]interface{}{
		"dispatched":    true,
		"dispatched_at": now,
		"status":        "completed",
	}).Error
}

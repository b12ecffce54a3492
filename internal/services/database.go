package services

import (
	"context"
	"time"

	"github.com/QuickWebMaster/mediva-bot/internal/database"
	"github.com/QuickWebMaster/mediva-bot/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DatabaseService работа с коллекциями бота в MongoDB.
// Реализует session.Store, поэтому при заданном MONGO_URI
// сессии переживают перезапуск процесса.
type DatabaseService struct {
	client       *mongo.Client
	db           *mongo.Database
	sessions     *mongo.Collection
	appointments *mongo.Collection
}

func NewDatabaseService(client *mongo.Client) *DatabaseService {
	db := database.GetDatabase(client, database.DatabaseName)

	return &DatabaseService{
		client:       client,
		db:           db,
		sessions:     database.GetCollection(db, "sessions"),
		appointments: database.GetCollection(db, "appointments"),
	}
}

// Session methods

func (s *DatabaseService) Get(ctx context.Context, chatID int64) (*models.Session, error) {
	var session models.Session
	err := s.sessions.FindOne(ctx, bson.M{"chat_id": chatID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Создаем новую сессию
			return models.NewSession(chatID), nil
		}
		return nil, err
	}
	if session.PendingFields == nil {
		session.PendingFields = make(map[string]string)
	}
	return &session, nil
}

func (s *DatabaseService) Upsert(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now()

	filter := bson.M{"chat_id": session.ChatID}
	upsert := true

	_, err := s.sessions.ReplaceOne(ctx, filter, session, &options.ReplaceOptions{
		Upsert: &upsert,
	})

	return err
}

func (s *DatabaseService) Delete(ctx context.Context, chatID int64) error {
	_, err := s.sessions.DeleteOne(ctx, bson.M{"chat_id": chatID})
	return err
}

// Appointment methods

func (s *DatabaseService) SaveAppointment(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
		appointment.CreatedAt = time.Now()
	}

	filter := bson.M{"_id": appointment.ID}
	upsert := true

	_, err := s.appointments.ReplaceOne(ctx, filter, appointment, &options.ReplaceOptions{
		Upsert: &upsert,
	})

	return err
}

// ListAppointments получает заявки, отсортированные по дате визита
func (s *DatabaseService) ListAppointments(ctx context.Context) ([]*models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "preferred_time", Value: 1}})

	cursor, err := s.appointments.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appointments []*models.Appointment
	for cursor.Next(ctx) {
		var appointment models.Appointment
		if err := cursor.Decode(&appointment); err != nil {
			continue
		}
		appointments = append(appointments, &appointment)
	}

	return appointments, cursor.Err()
}

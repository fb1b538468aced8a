package records

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"interntrack/internal/store"
)

// MongoRepository persists records as documents in three collections.
type MongoRepository struct {
	client     *mongo.Client
	interns    *mongo.Collection
	tasks      *mongo.Collection
	attendance *mongo.Collection
}

// NewMongoRepository binds the repository to an already connected database.
func NewMongoRepository(m *store.Mongo) *MongoRepository {
	return &MongoRepository{
		client:     m.Client,
		interns:    m.Database.Collection(store.InternCollection),
		tasks:      m.Database.Collection(store.TaskCollection),
		attendance: m.Database.Collection(store.AttendanceCollection),
	}
}

func (r *MongoRepository) InsertIntern(ctx context.Context, in Intern) error {
	_, err := r.interns.InsertOne(ctx, in)
	return err
}

func (r *MongoRepository) InsertAttendance(ctx context.Context, rec AttendanceRecord) error {
	rec.LogoutTime = nil
	_, err := r.attendance.InsertOne(ctx, rec)
	return err
}

// CloseOpenSession relies on findOneAndUpdate being atomic per document. Which
// open session is picked when several exist is up to the server.
func (r *MongoRepository) CloseOpenSession(ctx context.Context, name string, logoutTime time.Time) (Outcome, error) {
	filter := bson.M{"name": name, "logout_time": nil}
	update := bson.M{"$set": bson.M{"logout_time": logoutTime}}

	err := r.attendance.FindOneAndUpdate(ctx, filter, update).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return NotFound, nil
	}
	if err != nil {
		return NotFound, err
	}
	return Matched, nil
}

func (r *MongoRepository) InsertTask(ctx context.Context, t Task) error {
	_, err := r.tasks.InsertOne(ctx, t)
	return err
}

func (r *MongoRepository) CompleteAssignedTask(ctx context.Context, internName, task string) (Outcome, error) {
	filter := bson.M{"intern_name": internName, "task": task, "status": StatusAssigned}
	update := bson.M{"$set": bson.M{"status": StatusCompleted}}

	res, err := r.tasks.UpdateOne(ctx, filter, update)
	if err != nil {
		return NotFound, err
	}
	if res.ModifiedCount > 0 {
		return Matched, nil
	}
	return NotFound, nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

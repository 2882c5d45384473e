package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/task-manager-api/internal/core/domain"
	"github.com/taskhive/task-manager-api/internal/core/ports"
)

const tasksCollection = "tasks"

// TaskRepository implements ports.TaskRepository on MongoDB. Every filter
// includes the owner id, so a non-owner lookup decodes to no document.
type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection)}
}

type mongoTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	Owner       primitive.ObjectID `bson:"owner"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (mt *mongoTask) toDomain() *domain.Task {
	return &domain.Task{
		ID:          mt.ID.Hex(),
		Description: mt.Description,
		Completed:   mt.Completed,
		Owner:       mt.Owner.Hex(),
		CreatedAt:   mt.CreatedAt.UTC(),
		UpdatedAt:   mt.UpdatedAt.UTC(),
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ownerID, err := primitive.ObjectIDFromHex(task.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoTask{
		Description: task.Description,
		Completed:   task.Completed,
		Owner:       ownerID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	created := *task
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id, owner string) (*domain.Task, error) {
	filter, err := ownedFilter(id, owner)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoTask
	if err := r.coll.FindOne(ctx, filter).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return mt.toDomain(), nil
}

// List runs the filter/sort/skip/limit query described by f. The owner
// clause is always present.
func (r *TaskRepository) List(ctx context.Context, f ports.TaskFilter) ([]*domain.Task, error) {
	ownerID, err := primitive.ObjectIDFromHex(f.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}

	filter := bson.M{"owner": ownerID}
	if f.Completed != nil {
		filter["completed"] = *f.Completed
	}

	opts := options.Find()
	if f.SortField != "" {
		dir := 1
		if !f.SortAsc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: f.SortField, Value: dir}})
	}
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cur.Close(ctx)

	tasks := []*domain.Task{}
	for cur.Next(ctx) {
		var mt mongoTask
		if err := cur.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, mt.toDomain())
	}
	return tasks, cur.Err()
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	filter, err := ownedFilter(task.ID, task.Owner)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"description": task.Description,
		"completed":   task.Completed,
		"updated_at":  task.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, owner string) (*domain.Task, error) {
	filter, err := ownedFilter(id, owner)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoTask
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TaskRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	ownerID, err := primitive.ObjectIDFromHex(owner)
	if err != nil {
		return 0, fmt.Errorf("invalid owner id: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"owner": ownerID})
	if err != nil {
		return 0, fmt.Errorf("delete tasks by owner: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the owner index used by every task query.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}},
	})
	return err
}

// ownedFilter builds the (id, owner) filter shared by single-task lookups.
// A malformed id behaves like a missing task.
func ownedFilter(id, owner string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	ownerID, err := primitive.ObjectIDFromHex(owner)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	return bson.M{"_id": oid, "owner": ownerID}, nil
}

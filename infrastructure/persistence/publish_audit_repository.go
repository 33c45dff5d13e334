package persistence

import (
	"context"
	"time"

	"hootsuite-publisher/domain/model"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"
)

// PublishAuditRepositoryGorm appends audit rows to MySQL through gorm
type PublishAuditRepositoryGorm struct {
	db *gorm.DB
}

func NewPublishAuditRepositoryGorm(db *gorm.DB) *PublishAuditRepositoryGorm {
	return &PublishAuditRepositoryGorm{db: db}
}

// Migrate creates or updates the publish_audit table.
func (r *PublishAuditRepositoryGorm) Migrate() error {
	return r.db.AutoMigrate(&model.PublishAudit{})
}

func (r *PublishAuditRepositoryGorm) Create(ctx context.Context, audits []*model.PublishAudit) error {
	if len(audits) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&audits).Error
}

// PublishAuditRepositoryMongo appends audit documents to a Mongo collection
type PublishAuditRepositoryMongo struct {
	collection *mongo.Collection
}

func NewPublishAuditRepositoryMongo(client *mongo.Client, database string) *PublishAuditRepositoryMongo {
	return &PublishAuditRepositoryMongo{collection: client.Database(database).Collection("publish_audit")}
}

func (r *PublishAuditRepositoryMongo) Create(ctx context.Context, audits []*model.PublishAudit) error {
	if len(audits) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(audits))
	for _, a := range audits {
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		docs = append(docs, a)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

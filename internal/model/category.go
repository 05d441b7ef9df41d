package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category 分类文档，name 不区分大小写唯一（由小写 slug 的唯一索引保证）
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug" json:"slug"`
	Color     string             `bson:"color" json:"color"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

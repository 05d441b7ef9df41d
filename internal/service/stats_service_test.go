package service

import (
	"Quill/internal/model"
	"Quill/internal/pkg/policy"
	"Quill/internal/repository"
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStatsService(t *testing.T) {
	goCat := primitive.NewObjectID()
	rustCat := primitive.NewObjectID()

	statsRepo := &fakeStatsRepo{
		total: 12,
		byStatus: []*repository.PostStatusStat{
			{Status: model.PostStatusPublished, Count: 8, Views: 400, Likes: 30},
			{Status: model.PostStatusDraft, Count: 4},
		},
		recent: []*model.Post{
			{ID: primitive.NewObjectID(), Title: "Newest", Status: model.PostStatusDraft, CreatedAt: time.Now()},
		},
		byCat: []*repository.CategoryStat{
			{CategoryID: goCat, Name: "Go", Posts: 6, Views: 300},
			{CategoryID: rustCat, Name: "Rust", Posts: 2, Views: 100},
		},
		byTag: []*repository.TagStat{
			{TagID: primitive.NewObjectID(), Name: "concurrency", Posts: 5},
		},
	}
	svc := NewStatsService(statsRepo)
	ctx := context.Background()

	t.Run("普通用户无权查看统计", func(t *testing.T) {
		if _, err := svc.PostStats(ctx, testUser); !errors.Is(err, policy.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("文章统计聚合三路结果", func(t *testing.T) {
		stats, err := svc.PostStats(ctx, testEditor)
		if err != nil {
			t.Fatalf("PostStats: %v", err)
		}
		if stats.Total != 12 {
			t.Errorf("total = %d, want 12", stats.Total)
		}
		if len(stats.ByStatus) != 2 || stats.ByStatus[0].Views != 400 {
			t.Errorf("by_status = %+v", stats.ByStatus)
		}
		if len(stats.Recent) != 1 || stats.Recent[0].Title != "Newest" {
			t.Errorf("recent = %+v", stats.Recent)
		}
	})

	t.Run("分类统计给出最热分类", func(t *testing.T) {
		stats, err := svc.CategoryStats(ctx, testAdmin)
		if err != nil {
			t.Fatalf("CategoryStats: %v", err)
		}
		if len(stats.Categories) != 2 {
			t.Fatalf("categories = %+v", stats.Categories)
		}
		if stats.MostPopular == nil || stats.MostPopular.Name != "Go" {
			t.Errorf("most_popular = %+v", stats.MostPopular)
		}
	})

	t.Run("标签统计", func(t *testing.T) {
		stats, err := svc.TagStats(ctx, testEditor)
		if err != nil {
			t.Fatalf("TagStats: %v", err)
		}
		if len(stats.Tags) != 1 || stats.Tags[0].Posts != 5 {
			t.Errorf("tags = %+v", stats.Tags)
		}
	})
}

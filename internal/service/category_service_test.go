package service

import (
	"Quill/internal/api/dto"
	"Quill/internal/model"
	"Quill/internal/pkg/policy"
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCategoryLifecycle(t *testing.T) {
	categoryRepo := newFakeCategoryRepo()
	postRepo := newFakePostRepo()
	svc := NewCategoryService(categoryRepo, postRepo)
	ctx := context.Background()

	t.Run("普通用户不能建分类", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, testUser, &dto.CategoryBaseDTO{Name: "Go"})
		if !errors.Is(err, policy.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	created, err := svc.CreateCategory(ctx, testEditor, &dto.CategoryBaseDTO{Name: "Go Tips", Color: "#00ADD8"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	t.Run("slug 由名称派生", func(t *testing.T) {
		if created.Slug != "go-tips" {
			t.Errorf("slug = %s, want go-tips", created.Slug)
		}
		if !created.IsActive {
			t.Error("default should be active")
		}
	})

	t.Run("名称大小写冲突被拒绝", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, testEditor, &dto.CategoryBaseDTO{Name: "GO TIPS"})
		if !errors.Is(err, ErrCategoryNameExist) {
			t.Errorf("err = %v, want ErrCategoryNameExist", err)
		}
	})

	t.Run("更新撞名同样被拒绝", func(t *testing.T) {
		other, err := svc.CreateCategory(ctx, testEditor, &dto.CategoryBaseDTO{Name: "Rust"})
		if err != nil {
			t.Fatalf("CreateCategory: %v", err)
		}
		_, err = svc.UpdateCategory(ctx, testEditor, other.ID, &dto.CategoryBaseDTO{Name: "go tips"})
		if !errors.Is(err, ErrCategoryNameExist) {
			t.Errorf("err = %v, want ErrCategoryNameExist", err)
		}
	})

	t.Run("editor 不能删分类", func(t *testing.T) {
		if err := svc.DeleteCategory(ctx, testEditor, created.ID); !errors.Is(err, policy.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("仍被文章引用的分类删不掉", func(t *testing.T) {
		oid, _ := primitive.ObjectIDFromHex(created.ID)
		post := &model.Post{
			Title: "Uses Category", Slug: "uses-category-1", CategoryID: oid,
			Status: model.PostStatusPublished, IsActive: true, CreatedAt: time.Now(),
		}
		if err := postRepo.Create(ctx, post); err != nil {
			t.Fatalf("seed post: %v", err)
		}

		if err := svc.DeleteCategory(ctx, testAdmin, created.ID); !errors.Is(err, ErrCategoryInUse) {
			t.Errorf("err = %v, want ErrCategoryInUse", err)
		}

		if err := postRepo.Delete(ctx, post.ID); err != nil {
			t.Fatalf("cleanup: %v", err)
		}
		if err := svc.DeleteCategory(ctx, testAdmin, created.ID); err != nil {
			t.Errorf("delete after unref: %v", err)
		}
	})

	t.Run("列表按名称过滤", func(t *testing.T) {
		categories, total, err := svc.ListCategories(ctx, &dto.NamedListQuery{Search: "rust"})
		if err != nil {
			t.Fatalf("ListCategories: %v", err)
		}
		if total != 1 || categories[0].Name != "Rust" {
			t.Errorf("total = %d, categories = %+v", total, categories)
		}
	})
}

func TestTagLifecycle(t *testing.T) {
	tagRepo := newFakeTagRepo()
	postRepo := newFakePostRepo()
	statsRepo := &fakeStatsRepo{}
	svc := NewTagService(tagRepo, postRepo, statsRepo)
	ctx := context.Background()

	created, err := svc.CreateTag(ctx, testEditor, &dto.TagBaseDTO{Name: "Web Dev"})
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if created.Slug != "web-dev" {
		t.Errorf("slug = %s, want web-dev", created.Slug)
	}

	t.Run("名称大小写冲突被拒绝", func(t *testing.T) {
		_, err := svc.CreateTag(ctx, testEditor, &dto.TagBaseDTO{Name: "web dev"})
		if !errors.Is(err, ErrTagNameExist) {
			t.Errorf("err = %v, want ErrTagNameExist", err)
		}
	})

	t.Run("仍被文章引用的标签删不掉", func(t *testing.T) {
		oid, _ := primitive.ObjectIDFromHex(created.ID)
		post := &model.Post{
			Title: "Uses Tag", Slug: "uses-tag-1", TagIDs: []primitive.ObjectID{oid},
			CategoryID: primitive.NewObjectID(),
			Status:     model.PostStatusPublished, IsActive: true, CreatedAt: time.Now(),
		}
		if err := postRepo.Create(ctx, post); err != nil {
			t.Fatalf("seed post: %v", err)
		}

		if err := svc.DeleteTag(ctx, testAdmin, created.ID); !errors.Is(err, ErrTagInUse) {
			t.Errorf("err = %v, want ErrTagInUse", err)
		}
	})

	t.Run("不存在的标签返回未找到", func(t *testing.T) {
		_, err := svc.GetTag(ctx, primitive.NewObjectID().Hex())
		if !errors.Is(err, ErrTagNotFound) {
			t.Errorf("err = %v, want ErrTagNotFound", err)
		}
	})
}

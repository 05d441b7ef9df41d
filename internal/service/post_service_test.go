package service

import (
	"Quill/internal/api/dto"
	"Quill/internal/model"
	"Quill/internal/pkg/policy"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	testUser   = policy.Caller{UserID: 10, Role: model.RoleUser}
	testEditor = policy.Caller{UserID: 20, Role: model.RoleEditor}
	testAdmin  = policy.Caller{UserID: 30, Role: model.RoleAdmin}
)

type postFixture struct {
	svc          PostService
	postRepo     *fakePostRepo
	commentRepo  *fakeCommentRepo
	categoryRepo *fakeCategoryRepo
	tagRepo      *fakeTagRepo
	categoryID   string
	tagID        string
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()

	postRepo := newFakePostRepo()
	commentRepo := newFakeCommentRepo()
	categoryRepo := newFakeCategoryRepo()
	tagRepo := newFakeTagRepo()

	category := &model.Category{Name: "Go", Slug: "go", IsActive: true}
	if err := categoryRepo.Create(context.Background(), category); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	tag := &model.Tag{Name: "concurrency", Slug: "concurrency", IsActive: true}
	if err := tagRepo.Create(context.Background(), tag); err != nil {
		t.Fatalf("seed tag: %v", err)
	}

	return &postFixture{
		svc:          NewPostService(postRepo, commentRepo, categoryRepo, tagRepo),
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		categoryID:   category.ID.Hex(),
		tagID:        tag.ID.Hex(),
	}
}

func (f *postFixture) createPost(t *testing.T, caller policy.Caller, title, status string) *dto.PostDTO {
	t.Helper()
	post, err := f.svc.CreatePost(context.Background(), caller, &dto.PostCreateDTO{
		Title:    title,
		Content:  "some long enough content for the post body",
		Category: f.categoryID,
		Tags:     []string{f.tagID},
		Status:   status,
	})
	if err != nil {
		t.Fatalf("CreatePost(%s): %v", title, err)
	}
	return post
}

func TestCreatePost(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	t.Run("普通用户不能发文", func(t *testing.T) {
		_, err := f.svc.CreatePost(ctx, testUser, &dto.PostCreateDTO{
			Title: "Hello World", Content: "content content content", Category: f.categoryID,
		})
		if !errors.Is(err, policy.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("分类不存在时拒绝", func(t *testing.T) {
		_, err := f.svc.CreatePost(ctx, testEditor, &dto.PostCreateDTO{
			Title: "Hello World", Content: "content content content",
			Category: primitive.NewObjectID().Hex(),
		})
		if !errors.Is(err, ErrCategoryInvalid) {
			t.Errorf("err = %v, want ErrCategoryInvalid", err)
		}
	})

	t.Run("标签不存在时拒绝", func(t *testing.T) {
		_, err := f.svc.CreatePost(ctx, testEditor, &dto.PostCreateDTO{
			Title: "Hello World", Content: "content content content",
			Category: f.categoryID, Tags: []string{primitive.NewObjectID().Hex()},
		})
		if !errors.Is(err, ErrTagInvalid) {
			t.Errorf("err = %v, want ErrTagInvalid", err)
		}
	})

	t.Run("默认状态为草稿", func(t *testing.T) {
		post := f.createPost(t, testEditor, "Draft By Default", "")
		if post.Status != model.PostStatusDraft {
			t.Errorf("status = %s, want draft", post.Status)
		}
		if post.PublishedAt != nil {
			t.Error("draft should not carry published_at")
		}
	})

	t.Run("slug 由标题派生并带去重后缀", func(t *testing.T) {
		post := f.createPost(t, testEditor, "Go Concurrency Patterns", model.PostStatusPublished)
		if !strings.HasPrefix(post.Slug, "go-concurrency-patterns-") {
			t.Errorf("slug = %s", post.Slug)
		}
		if post.PublishedAt == nil {
			t.Error("published post should carry published_at")
		}
		if post.ReadTime < 1 {
			t.Errorf("read_time = %d, want >= 1", post.ReadTime)
		}
		if post.Category != "Go" {
			t.Errorf("category = %s, want Go", post.Category)
		}
		if len(post.Tags) != 1 || post.Tags[0] != "concurrency" {
			t.Errorf("tags = %v", post.Tags)
		}
	})
}

func TestGetPostVisibility(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	authorEditor := policy.Caller{UserID: 40, Role: model.RoleEditor}
	draft := f.createPost(t, authorEditor, "Secret Draft", model.PostStatusDraft)
	published := f.createPost(t, authorEditor, "Public Post", model.PostStatusPublished)

	t.Run("匿名看不到草稿", func(t *testing.T) {
		_, err := f.svc.GetPost(ctx, policy.Caller{}, draft.ID)
		if !errors.Is(err, ErrPostNotFound) {
			t.Errorf("err = %v, want ErrPostNotFound", err)
		}
	})

	t.Run("普通用户看不到草稿", func(t *testing.T) {
		_, err := f.svc.GetPost(ctx, testUser, draft.ID)
		if !errors.Is(err, ErrPostNotFound) {
			t.Errorf("err = %v, want ErrPostNotFound", err)
		}
	})

	t.Run("editor 与作者可见草稿", func(t *testing.T) {
		if _, err := f.svc.GetPost(ctx, testEditor, draft.ID); err != nil {
			t.Errorf("editor: %v", err)
		}
		if _, err := f.svc.GetPost(ctx, authorEditor, draft.ID); err != nil {
			t.Errorf("author: %v", err)
		}
	})

	t.Run("已发布文章读取计入浏览量", func(t *testing.T) {
		first, err := f.svc.GetPost(ctx, policy.Caller{}, published.ID)
		if err != nil {
			t.Fatalf("GetPost: %v", err)
		}
		second, err := f.svc.GetPost(ctx, policy.Caller{}, published.ID)
		if err != nil {
			t.Fatalf("GetPost: %v", err)
		}
		if second.Views != first.Views+1 {
			t.Errorf("views = %d after %d", second.Views, first.Views)
		}
	})

	t.Run("editor/admin 读取不计浏览量", func(t *testing.T) {
		before, err := f.svc.GetPost(ctx, testAdmin, published.ID)
		if err != nil {
			t.Fatalf("GetPost: %v", err)
		}
		after, err := f.svc.GetPost(ctx, testAdmin, published.ID)
		if err != nil {
			t.Fatalf("GetPost: %v", err)
		}
		if after.Views != before.Views {
			t.Errorf("admin reads moved views from %d to %d", before.Views, after.Views)
		}
	})

	t.Run("草稿读取不计浏览量", func(t *testing.T) {
		before, _ := f.svc.GetPost(ctx, authorEditor, draft.ID)
		after, _ := f.svc.GetPost(ctx, authorEditor, draft.ID)
		if after.Views != before.Views {
			t.Errorf("draft views moved from %d to %d", before.Views, after.Views)
		}
	})
}

func TestGetPostList(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	f.createPost(t, testEditor, "Visible One", model.PostStatusPublished)
	f.createPost(t, testEditor, "Visible Two", model.PostStatusPublished)
	f.createPost(t, testEditor, "Hidden Draft", model.PostStatusDraft)

	t.Run("匿名只见已发布", func(t *testing.T) {
		posts, total, err := f.svc.GetPostList(ctx, policy.Caller{}, &dto.PostListQuery{})
		if err != nil {
			t.Fatalf("GetPostList: %v", err)
		}
		if total != 2 || len(posts) != 2 {
			t.Errorf("total = %d, len = %d, want 2", total, len(posts))
		}
	})

	t.Run("editor 可按状态过滤", func(t *testing.T) {
		posts, total, err := f.svc.GetPostList(ctx, testEditor, &dto.PostListQuery{Status: model.PostStatusDraft})
		if err != nil {
			t.Fatalf("GetPostList: %v", err)
		}
		if total != 1 || posts[0].Title != "Hidden Draft" {
			t.Errorf("total = %d, posts = %v", total, posts)
		}
	})

	t.Run("列表项不携带正文", func(t *testing.T) {
		// PostListItemDTO 没有 Content 字段，这里验证分页元数据
		_, total, err := f.svc.GetPostList(ctx, testEditor, &dto.PostListQuery{
			PageQuery: dto.PageQuery{Page: 1, Limit: 2},
		})
		if err != nil {
			t.Fatalf("GetPostList: %v", err)
		}
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
	})
}

func TestUpdatePost(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	author := policy.Caller{UserID: 50, Role: model.RoleEditor}
	post := f.createPost(t, author, "Original Title", model.PostStatusDraft)

	t.Run("标题变更后 slug 后缀不变", func(t *testing.T) {
		oldSuffix := post.Slug[strings.LastIndex(post.Slug, "-"):]
		newTitle := "A Brand New Title"
		updated, err := f.svc.UpdatePost(ctx, author, post.ID, &dto.PostUpdateDTO{Title: &newTitle})
		if err != nil {
			t.Fatalf("UpdatePost: %v", err)
		}
		if !strings.HasPrefix(updated.Slug, "a-brand-new-title-") {
			t.Errorf("slug = %s", updated.Slug)
		}
		if !strings.HasSuffix(updated.Slug, oldSuffix) {
			t.Errorf("slug suffix changed: %s vs %s", updated.Slug, oldSuffix)
		}
	})

	t.Run("首次发布记录时间,再次发布不覆盖", func(t *testing.T) {
		published := model.PostStatusPublished
		first, err := f.svc.UpdatePost(ctx, author, post.ID, &dto.PostUpdateDTO{Status: &published})
		if err != nil {
			t.Fatalf("UpdatePost: %v", err)
		}
		if first.PublishedAt == nil {
			t.Fatal("published_at not set")
		}
		firstAt := *first.PublishedAt

		time.Sleep(5 * time.Millisecond)
		draft := model.PostStatusDraft
		if _, err = f.svc.UpdatePost(ctx, author, post.ID, &dto.PostUpdateDTO{Status: &draft}); err != nil {
			t.Fatalf("UpdatePost: %v", err)
		}
		second, err := f.svc.UpdatePost(ctx, author, post.ID, &dto.PostUpdateDTO{Status: &published})
		if err != nil {
			t.Fatalf("UpdatePost: %v", err)
		}
		if !second.PublishedAt.Equal(firstAt) {
			t.Errorf("published_at moved: %v -> %v", firstAt, second.PublishedAt)
		}
	})

	t.Run("普通用户不能改他人文章", func(t *testing.T) {
		newTitle := "Hijacked Title"
		_, err := f.svc.UpdatePost(ctx, testUser, post.ID, &dto.PostUpdateDTO{Title: &newTitle})
		if !errors.Is(err, policy.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})
}

func TestDeletePostCascadesComments(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	author := policy.Caller{UserID: 60, Role: model.RoleEditor}
	post := f.createPost(t, author, "Post With Comments", model.PostStatusPublished)

	commentSvc := NewCommentService(f.commentRepo, f.postRepo)
	comment, err := commentSvc.CreateComment(ctx, testUser, post.ID, &dto.CommentCreateDTO{Content: "nice"})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	t.Run("editor 不能删他人文章", func(t *testing.T) {
		other := policy.Caller{UserID: 61, Role: model.RoleEditor}
		if err := f.svc.DeletePost(ctx, other, post.ID); !errors.Is(err, policy.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("删除文章连同评论", func(t *testing.T) {
		if err := f.svc.DeletePost(ctx, author, post.ID); err != nil {
			t.Fatalf("DeletePost: %v", err)
		}
		if _, err := f.svc.GetPost(ctx, testAdmin, post.ID); !errors.Is(err, ErrPostNotFound) {
			t.Errorf("post still readable: %v", err)
		}
		oid, _ := primitive.ObjectIDFromHex(comment.ID)
		if got, _ := f.commentRepo.GetByID(ctx, oid); got != nil {
			t.Error("comment survived post deletion")
		}
	})
}

func TestTogglePostLike(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	post := f.createPost(t, testEditor, "Likeable Post", model.PostStatusPublished)

	t.Run("匿名不能点赞", func(t *testing.T) {
		_, err := f.svc.ToggleLike(ctx, policy.Caller{}, post.ID)
		if !errors.Is(err, policy.ErrUnauthenticated) {
			t.Errorf("err = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("同一用户两次切换回到原状态", func(t *testing.T) {
		first, err := f.svc.ToggleLike(ctx, testUser, post.ID)
		if err != nil {
			t.Fatalf("ToggleLike: %v", err)
		}
		if !first.Liked || first.Likes != 1 {
			t.Errorf("first toggle = %+v", first)
		}

		second, err := f.svc.ToggleLike(ctx, testUser, post.ID)
		if err != nil {
			t.Fatalf("ToggleLike: %v", err)
		}
		if second.Liked || second.Likes != 0 {
			t.Errorf("second toggle = %+v", second)
		}
	})

	t.Run("不同用户互不影响", func(t *testing.T) {
		if _, err := f.svc.ToggleLike(ctx, testUser, post.ID); err != nil {
			t.Fatalf("ToggleLike: %v", err)
		}
		result, err := f.svc.ToggleLike(ctx, testAdmin, post.ID)
		if err != nil {
			t.Fatalf("ToggleLike: %v", err)
		}
		if result.Likes != 2 {
			t.Errorf("likes = %d, want 2", result.Likes)
		}
	})
}

func TestRelatedPosts(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	base := f.createPost(t, testEditor, "Base Post", model.PostStatusPublished)
	f.createPost(t, testEditor, "Same Category", model.PostStatusPublished)
	f.createPost(t, testEditor, "Unpublished Sibling", model.PostStatusDraft)

	related, err := f.svc.GetRelatedPosts(ctx, policy.Caller{}, base.ID)
	if err != nil {
		t.Fatalf("GetRelatedPosts: %v", err)
	}
	if len(related) != 1 {
		t.Fatalf("len = %d, want 1", len(related))
	}
	if related[0].Title != "Same Category" {
		t.Errorf("related = %s", related[0].Title)
	}
}

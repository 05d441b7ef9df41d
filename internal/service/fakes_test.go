package service

import (
	"Quill/internal/model"
	"Quill/internal/repository"
	"context"
	"sort"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// duplicateKeyErr 与 Mongo 唯一索引冲突同构的错误，供 fake 仓储返回
func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

// ---- user ----

type fakeUserRepo struct {
	users  map[uint64]*model.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]*model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return &gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		}
	}
	f.nextID++
	user.ID = f.nextID
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint64) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(_ context.Context, filter repository.UserFilter, page, limit int) ([]*model.User, int64, error) {
	var matched []*model.User
	for _, user := range f.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && user.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(user.Name, filter.Search) &&
			!strings.Contains(user.Email, filter.Search) {
			continue
		}
		clone := *user
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	for id, u := range f.users {
		if id != user.ID && u.Email == user.Email {
			return &gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uint64) error {
	delete(f.users, id)
	return nil
}

// ---- post ----

type fakePostRepo struct {
	posts map[primitive.ObjectID]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[primitive.ObjectID]*model.Post{}}
}

func (f *fakePostRepo) slugTaken(slug string, except primitive.ObjectID) bool {
	for id, post := range f.posts {
		if id != except && post.Slug == slug {
			return true
		}
	}
	return false
}

func (f *fakePostRepo) Create(_ context.Context, post *model.Post) error {
	if f.slugTaken(post.Slug, primitive.NilObjectID) {
		return duplicateKeyErr()
	}
	post.ID = primitive.NewObjectID()
	clone := *post
	f.posts[post.ID] = &clone
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	clone := *post
	return &clone, nil
}

func (f *fakePostRepo) List(_ context.Context, filter repository.PostFilter, sortBy string, page, limit int) ([]*model.Post, int64, error) {
	var matched []*model.Post
	for _, post := range f.posts {
		if filter.Status != "" && post.Status != filter.Status {
			continue
		}
		if filter.IsActive != nil && post.IsActive != *filter.IsActive {
			continue
		}
		if filter.CategoryID != nil && post.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.TagID != nil {
			found := false
			for _, tagID := range post.TagIDs {
				if tagID == *filter.TagID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.AuthorID != 0 && post.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(post.Title, filter.Search) &&
			!strings.Contains(post.Content, filter.Search) {
			continue
		}
		clone := *post
		matched = append(matched, &clone)
	}

	switch sortBy {
	case "popular":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Views > matched[j].Views })
	case "liked":
		sort.Slice(matched, func(i, j int) bool { return matched[i].LikesCount > matched[j].LikesCount })
	case "title":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })
	case "oldest":
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	default:
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	}

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakePostRepo) Update(_ context.Context, id primitive.ObjectID, set bson.M) error {
	post, ok := f.posts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if slug, ok := set["slug"].(string); ok {
		if f.slugTaken(slug, id) {
			return duplicateKeyErr()
		}
		post.Slug = slug
	}
	if title, ok := set["title"].(string); ok {
		post.Title = title
	}
	if content, ok := set["content"].(string); ok {
		post.Content = content
	}
	if status, ok := set["status"].(string); ok {
		post.Status = status
	}
	if categoryID, ok := set["category_id"].(primitive.ObjectID); ok {
		post.CategoryID = categoryID
	}
	if tagIDs, ok := set["tag_ids"].([]primitive.ObjectID); ok {
		post.TagIDs = tagIDs
	}
	if isActive, ok := set["is_active"].(bool); ok {
		post.IsActive = isActive
	}
	if readTime, ok := set["read_time"].(int); ok {
		post.ReadTime = readTime
	}
	if publishedAt, ok := set["published_at"].(time.Time); ok {
		post.PublishedAt = &publishedAt
	}
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) IncViews(_ context.Context, id primitive.ObjectID) error {
	if post, ok := f.posts[id]; ok {
		post.Views++
	}
	return nil
}

func (f *fakePostRepo) ToggleLike(_ context.Context, id primitive.ObjectID, userID uint64) (*model.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	if post.LikedBy(userID) {
		likers := make([]uint64, 0, len(post.Likers))
		for _, liker := range post.Likers {
			if liker != userID {
				likers = append(likers, liker)
			}
		}
		post.Likers = likers
	} else {
		post.Likers = append(post.Likers, userID)
	}
	post.LikesCount = len(post.Likers)
	clone := *post
	return &clone, nil
}

func (f *fakePostRepo) Related(_ context.Context, post *model.Post, limit int64) ([]*model.Post, error) {
	var matched []*model.Post
	for id, candidate := range f.posts {
		if id == post.ID || candidate.Status != model.PostStatusPublished || !candidate.IsActive {
			continue
		}
		related := candidate.CategoryID == post.CategoryID
		if !related {
			for _, tagID := range candidate.TagIDs {
				for _, wanted := range post.TagIDs {
					if tagID == wanted {
						related = true
						break
					}
				}
			}
		}
		if related {
			clone := *candidate
			matched = append(matched, &clone)
		}
	}
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakePostRepo) CountByCategory(_ context.Context, categoryID primitive.ObjectID) (int64, error) {
	var count int64
	for _, post := range f.posts {
		if post.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (f *fakePostRepo) CountByTag(_ context.Context, tagID primitive.ObjectID) (int64, error) {
	var count int64
	for _, post := range f.posts {
		for _, id := range post.TagIDs {
			if id == tagID {
				count++
			}
		}
	}
	return count, nil
}

// ---- comment ----

type fakeCommentRepo struct {
	comments map[primitive.ObjectID]*model.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[primitive.ObjectID]*model.Comment{}}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	comment.ID = primitive.NewObjectID()
	clone := *comment
	f.comments[comment.ID] = &clone
	return nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, nil
	}
	clone := *comment
	return &clone, nil
}

func matchComment(comment *model.Comment, filter repository.CommentFilter) bool {
	if filter.PostID != nil && comment.PostID != *filter.PostID {
		return false
	}
	if filter.Status != "" && comment.Status != filter.Status {
		return false
	}
	if filter.PublicOnly && (comment.Status != model.CommentStatusApproved || !comment.IsActive) {
		return false
	}
	if filter.TopLevelOnly && comment.ParentID != nil {
		return false
	}
	return true
}

func (f *fakeCommentRepo) List(_ context.Context, filter repository.CommentFilter, page, limit int) ([]*model.Comment, int64, error) {
	var matched []*model.Comment
	for _, comment := range f.comments {
		if matchComment(comment, filter) {
			clone := *comment
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeCommentRepo) Replies(_ context.Context, parentIDs []primitive.ObjectID, publicOnly bool) (map[primitive.ObjectID][]*model.Comment, error) {
	result := make(map[primitive.ObjectID][]*model.Comment)
	for _, comment := range f.comments {
		if comment.ParentID == nil {
			continue
		}
		if publicOnly && (comment.Status != model.CommentStatusApproved || !comment.IsActive) {
			continue
		}
		for _, parentID := range parentIDs {
			if *comment.ParentID == parentID {
				clone := *comment
				result[parentID] = append(result[parentID], &clone)
			}
		}
	}
	for _, replies := range result {
		sort.Slice(replies, func(i, j int) bool { return replies[i].CreatedAt.Before(replies[j].CreatedAt) })
	}
	return result, nil
}

func (f *fakeCommentRepo) Update(_ context.Context, id primitive.ObjectID, set bson.M) error {
	comment, ok := f.comments[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if content, ok := set["content"].(string); ok {
		comment.Content = content
	}
	if status, ok := set["status"].(string); ok {
		comment.Status = status
	}
	if edited, ok := set["edited"].(bool); ok {
		comment.Edited = edited
	}
	return nil
}

func (f *fakeCommentRepo) DeleteCascade(_ context.Context, id primitive.ObjectID) (int64, error) {
	frontier := []primitive.ObjectID{id}
	all := []primitive.ObjectID{id}
	for len(frontier) > 0 {
		var next []primitive.ObjectID
		for _, comment := range f.comments {
			if comment.ParentID == nil {
				continue
			}
			for _, parentID := range frontier {
				if *comment.ParentID == parentID {
					next = append(next, comment.ID)
					all = append(all, comment.ID)
				}
			}
		}
		frontier = next
	}

	var deleted int64
	for _, victim := range all {
		if _, ok := f.comments[victim]; ok {
			delete(f.comments, victim)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeCommentRepo) DeleteByPost(_ context.Context, postID primitive.ObjectID) error {
	for id, comment := range f.comments {
		if comment.PostID == postID {
			delete(f.comments, id)
		}
	}
	return nil
}

func (f *fakeCommentRepo) ToggleLike(_ context.Context, id primitive.ObjectID, userID uint64) (*model.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, nil
	}
	if comment.LikedBy(userID) {
		likers := make([]uint64, 0, len(comment.Likers))
		for _, liker := range comment.Likers {
			if liker != userID {
				likers = append(likers, liker)
			}
		}
		comment.Likers = likers
	} else {
		comment.Likers = append(comment.Likers, userID)
	}
	comment.LikesCount = len(comment.Likers)
	clone := *comment
	return &clone, nil
}

// ---- category ----

type fakeCategoryRepo struct {
	categories map[primitive.ObjectID]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[primitive.ObjectID]*model.Category{}}
}

func (f *fakeCategoryRepo) slugTaken(slug string, except primitive.ObjectID) bool {
	for id, category := range f.categories {
		if id != except && category.Slug == slug {
			return true
		}
	}
	return false
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *model.Category) error {
	if f.slugTaken(category.Slug, primitive.NilObjectID) {
		return duplicateKeyErr()
	}
	category.ID = primitive.NewObjectID()
	clone := *category
	f.categories[category.ID] = &clone
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, nil
	}
	clone := *category
	return &clone, nil
}

func (f *fakeCategoryRepo) GetActiveByID(_ context.Context, id primitive.ObjectID) (*model.Category, error) {
	category, ok := f.categories[id]
	if !ok || !category.IsActive {
		return nil, nil
	}
	clone := *category
	return &clone, nil
}

func (f *fakeCategoryRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]*model.Category, error) {
	var result []*model.Category
	for _, id := range ids {
		if category, ok := f.categories[id]; ok {
			clone := *category
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeCategoryRepo) List(_ context.Context, search string, isActive *bool, page, limit int) ([]*model.Category, int64, error) {
	var matched []*model.Category
	for _, category := range f.categories {
		if search != "" && !strings.Contains(strings.ToLower(category.Name), strings.ToLower(search)) {
			continue
		}
		if isActive != nil && category.IsActive != *isActive {
			continue
		}
		clone := *category
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, id primitive.ObjectID, set bson.M) error {
	category, ok := f.categories[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if slug, ok := set["slug"].(string); ok {
		if f.slugTaken(slug, id) {
			return duplicateKeyErr()
		}
		category.Slug = slug
	}
	if name, ok := set["name"].(string); ok {
		category.Name = name
	}
	if color, ok := set["color"].(string); ok {
		category.Color = color
	}
	if isActive, ok := set["is_active"].(bool); ok {
		category.IsActive = isActive
	}
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.categories, id)
	return nil
}

// ---- tag ----

type fakeTagRepo struct {
	tags map[primitive.ObjectID]*model.Tag
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: map[primitive.ObjectID]*model.Tag{}}
}

func (f *fakeTagRepo) slugTaken(slug string, except primitive.ObjectID) bool {
	for id, tag := range f.tags {
		if id != except && tag.Slug == slug {
			return true
		}
	}
	return false
}

func (f *fakeTagRepo) Create(_ context.Context, tag *model.Tag) error {
	if f.slugTaken(tag.Slug, primitive.NilObjectID) {
		return duplicateKeyErr()
	}
	tag.ID = primitive.NewObjectID()
	clone := *tag
	f.tags[tag.ID] = &clone
	return nil
}

func (f *fakeTagRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Tag, error) {
	tag, ok := f.tags[id]
	if !ok {
		return nil, nil
	}
	clone := *tag
	return &clone, nil
}

func (f *fakeTagRepo) GetActiveByIDs(_ context.Context, ids []primitive.ObjectID) ([]*model.Tag, error) {
	var result []*model.Tag
	for _, id := range ids {
		if tag, ok := f.tags[id]; ok && tag.IsActive {
			clone := *tag
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeTagRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]*model.Tag, error) {
	var result []*model.Tag
	for _, id := range ids {
		if tag, ok := f.tags[id]; ok {
			clone := *tag
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeTagRepo) List(_ context.Context, search string, isActive *bool, page, limit int) ([]*model.Tag, int64, error) {
	var matched []*model.Tag
	for _, tag := range f.tags {
		if search != "" && !strings.Contains(strings.ToLower(tag.Name), strings.ToLower(search)) {
			continue
		}
		if isActive != nil && tag.IsActive != *isActive {
			continue
		}
		clone := *tag
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeTagRepo) Update(_ context.Context, id primitive.ObjectID, set bson.M) error {
	tag, ok := f.tags[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if slug, ok := set["slug"].(string); ok {
		if f.slugTaken(slug, id) {
			return duplicateKeyErr()
		}
		tag.Slug = slug
	}
	if name, ok := set["name"].(string); ok {
		tag.Name = name
	}
	if color, ok := set["color"].(string); ok {
		tag.Color = color
	}
	if isActive, ok := set["is_active"].(bool); ok {
		tag.IsActive = isActive
	}
	return nil
}

func (f *fakeTagRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.tags, id)
	return nil
}

// ---- stats ----

type fakeStatsRepo struct {
	total    int64
	byStatus []*repository.PostStatusStat
	recent   []*model.Post
	byCat    []*repository.CategoryStat
	byTag    []*repository.TagStat
}

func (f *fakeStatsRepo) TotalPosts(_ context.Context) (int64, error) {
	return f.total, nil
}

func (f *fakeStatsRepo) PostStatusStats(_ context.Context) ([]*repository.PostStatusStat, error) {
	return f.byStatus, nil
}

func (f *fakeStatsRepo) RecentPosts(_ context.Context, limit int64) ([]*model.Post, error) {
	if int64(len(f.recent)) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeStatsRepo) CategoryStats(_ context.Context) ([]*repository.CategoryStat, error) {
	return f.byCat, nil
}

func (f *fakeStatsRepo) TagStats(_ context.Context, limit int64) ([]*repository.TagStat, error) {
	if int64(len(f.byTag)) > limit {
		return f.byTag[:limit], nil
	}
	return f.byTag, nil
}

package wire

import (
	"Quill/internal/api"
	"Quill/internal/api/handler"
	"Quill/internal/repository"
	"Quill/internal/service"

	"github.com/gin-gonic/gin"
	mongodb "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func BuildApplication(db *gorm.DB, mongoDB *mongodb.Database) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	postRepo := repository.NewPostRepo(mongoDB)
	commentRepo := repository.NewCommentRepo(mongoDB)
	categoryRepo := repository.NewCategoryRepo(mongoDB)
	tagRepo := repository.NewTagRepo(mongoDB)
	statsRepo := repository.NewStatsRepo(mongoDB)

	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo, commentRepo, categoryRepo, tagRepo)
	commentService := service.NewCommentService(commentRepo, postRepo)
	categoryService := service.NewCategoryService(categoryRepo, postRepo)
	tagService := service.NewTagService(tagRepo, postRepo, statsRepo)
	statsService := service.NewStatsService(statsRepo)

	handlers := &api.HandlersGroup{
		AuthHandler:     handler.NewAuthHandler(userService),
		UserHandler:     handler.NewUserHandler(userService),
		PostHandler:     handler.NewPostHandler(postService),
		CommentHandler:  handler.NewCommentHandler(commentService),
		CategoryHandler: handler.NewCategoryHandler(categoryService),
		TagHandler:      handler.NewTagHandler(tagService),
		StatsHandler:    handler.NewStatsHandler(statsService),
	}

	router := api.SetupRouter(handlers)

	return &ApplicationContainer{
		Router: router,
		DB:     db,
	}, nil
}

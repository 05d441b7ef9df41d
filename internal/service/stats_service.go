package service

import (
	"Quill/internal/api/dto"
	"Quill/internal/pkg/policy"
	"Quill/internal/repository"
	"context"

	"golang.org/x/sync/errgroup"
)

type StatsService interface {
	PostStats(ctx context.Context, caller policy.Caller) (*dto.PostStatsDTO, error)
	CategoryStats(ctx context.Context, caller policy.Caller) (*dto.CategoryStatsDTO, error)
	TagStats(ctx context.Context, caller policy.Caller) (*dto.TagStatsDTO, error)
}

type StatsServiceImpl struct {
	statsRepo repository.StatsRepo
}

func NewStatsService(statsRepo repository.StatsRepo) StatsService {
	return &StatsServiceImpl{
		statsRepo: statsRepo,
	}
}

// PostStats 总量、按状态聚合与最近文章并发取回
func (s *StatsServiceImpl) PostStats(ctx context.Context, caller policy.Caller) (*dto.PostStatsDTO, error) {
	if err := policy.Decide(caller, policy.ActionStatsView, policy.Target{}); err != nil {
		return nil, err
	}

	var (
		total    int64
		byStatus []*repository.PostStatusStat
		recent   []*dto.RecentPostDTO
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.statsRepo.TotalPosts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byStatus, err = s.statsRepo.PostStatusStats(gctx)
		return err
	})
	g.Go(func() error {
		posts, err := s.statsRepo.RecentPosts(gctx, 5)
		if err != nil {
			return err
		}
		recent = make([]*dto.RecentPostDTO, 0, len(posts))
		for _, post := range posts {
			recent = append(recent, &dto.RecentPostDTO{
				ID:        post.ID.Hex(),
				Title:     post.Title,
				Status:    post.Status,
				CreatedAt: post.CreatedAt,
			})
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &dto.PostStatsDTO{
		Total:    total,
		ByStatus: make([]*dto.PostStatusStatDTO, 0, len(byStatus)),
		Recent:   recent,
	}
	for _, stat := range byStatus {
		stats.ByStatus = append(stats.ByStatus, &dto.PostStatusStatDTO{
			Status: stat.Status,
			Count:  stat.Count,
			Views:  stat.Views,
			Likes:  stat.Likes,
		})
	}
	return stats, nil
}

func (s *StatsServiceImpl) CategoryStats(ctx context.Context, caller policy.Caller) (*dto.CategoryStatsDTO, error) {
	if err := policy.Decide(caller, policy.ActionStatsView, policy.Target{}); err != nil {
		return nil, err
	}

	stats, err := s.statsRepo.CategoryStats(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.CategoryStatsDTO{
		Categories: make([]*dto.CategoryStatDTO, 0, len(stats)),
	}
	for _, stat := range stats {
		result.Categories = append(result.Categories, &dto.CategoryStatDTO{
			ID:    stat.CategoryID.Hex(),
			Name:  stat.Name,
			Posts: stat.Posts,
			Views: stat.Views,
		})
	}
	// 聚合已按文章数倒序
	if len(result.Categories) > 0 {
		result.MostPopular = result.Categories[0]
	}
	return result, nil
}

func (s *StatsServiceImpl) TagStats(ctx context.Context, caller policy.Caller) (*dto.TagStatsDTO, error) {
	if err := policy.Decide(caller, policy.ActionStatsView, policy.Target{}); err != nil {
		return nil, err
	}

	stats, err := s.statsRepo.TagStats(ctx, 20)
	if err != nil {
		return nil, err
	}

	result := &dto.TagStatsDTO{
		Tags: make([]*dto.TagStatDTO, 0, len(stats)),
	}
	for _, stat := range stats {
		result.Tags = append(result.Tags, &dto.TagStatDTO{
			ID:    stat.TagID.Hex(),
			Name:  stat.Name,
			Posts: stat.Posts,
		})
	}
	return result, nil
}

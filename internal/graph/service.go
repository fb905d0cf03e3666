package graph

import (
	"context"
	"errors"
	"log"

	"github.com/follownet/server/internal/model"
	"github.com/follownet/server/internal/repo"
)

// UserResolver resolves usernames to users. Satisfied by repo.UserRepo.
type UserResolver interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// Metrics receives graph operation outcomes. May be nil.
type Metrics interface {
	RecordGraphOp(op, result string)
}

// Service is the sole writer of relationship edges. All mutations for an
// unordered user pair are serialized through a per-pair lock on top of the
// store's own atomicity, so concurrent follow/block calls converge to a
// state reachable by some serialization.
type Service struct {
	users   UserResolver
	edges   repo.RelationshipRepo
	pairs   *pairLock
	metrics Metrics
}

// NewService creates a new graph service
func NewService(users UserResolver, edges repo.RelationshipRepo, metrics Metrics) *Service {
	return &Service{
		users:   users,
		edges:   edges,
		pairs:   newPairLock(),
		metrics: metrics,
	}
}

// Follow creates FOLLOW(actor -> target). Idempotent: following an
// already-followed target is a no-op success. A block in either direction
// forbids the operation.
func (s *Service) Follow(ctx context.Context, actor model.User, targetUsername string) (model.Profile, error) {
	target, err := s.resolveOther(ctx, actor, targetUsername)
	if err != nil {
		s.record("follow", "rejected")
		return model.Profile{}, err
	}

	unlock := s.pairs.Lock(actor.ID, target.ID)
	defer unlock()

	blocked, err := s.blockExistsEitherDirection(ctx, actor, target)
	if err != nil {
		s.record("follow", "error")
		return model.Profile{}, err
	}
	if blocked {
		s.record("follow", "forbidden")
		return model.Profile{}, ErrBlocked
	}

	if err := s.edges.CreateEdge(ctx, actor.ID, target.ID, model.RelationFollow); err != nil {
		s.record("follow", "error")
		return model.Profile{}, err
	}

	s.record("follow", "success")
	return profileOf(target, true), nil
}

// Unfollow removes FOLLOW(actor -> target) if present
func (s *Service) Unfollow(ctx context.Context, actor model.User, targetUsername string) (model.Profile, error) {
	target, err := s.resolveOther(ctx, actor, targetUsername)
	if err != nil {
		s.record("unfollow", "rejected")
		return model.Profile{}, err
	}

	unlock := s.pairs.Lock(actor.ID, target.ID)
	defer unlock()

	if err := s.edges.RemoveEdge(ctx, actor.ID, target.ID, model.RelationFollow); err != nil {
		s.record("unfollow", "error")
		return model.Profile{}, err
	}

	s.record("unfollow", "success")
	return profileOf(target, false), nil
}

// Block creates BLOCK(actor -> target) and severs both follow directions as
// one atomic unit. Blocking an already-blocked target is idempotent success.
func (s *Service) Block(ctx context.Context, actor model.User, targetUsername string) error {
	target, err := s.resolveOther(ctx, actor, targetUsername)
	if err != nil {
		s.record("block", "rejected")
		return err
	}

	unlock := s.pairs.Lock(actor.ID, target.ID)
	defer unlock()

	if err := s.edges.BlockAtomic(ctx, actor.ID, target.ID); err != nil {
		s.record("block", "error")
		return err
	}

	log.Printf("user blocked: actor=%s target=%s", actor.ID, target.ID)
	s.record("block", "success")
	return nil
}

// Unblock removes BLOCK(actor -> target) if present. Follow edges severed by
// the original block are not restored.
func (s *Service) Unblock(ctx context.Context, actor model.User, targetUsername string) error {
	target, err := s.resolveOther(ctx, actor, targetUsername)
	if err != nil {
		s.record("unblock", "rejected")
		return err
	}

	unlock := s.pairs.Lock(actor.ID, target.ID)
	defer unlock()

	if err := s.edges.RemoveEdge(ctx, actor.ID, target.ID, model.RelationBlock); err != nil {
		s.record("unblock", "error")
		return err
	}

	s.record("unblock", "success")
	return nil
}

// GetProfile returns the target's public view. With a viewer present the
// following flag reflects FOLLOW(viewer -> target); anonymous viewers get
// following=false.
func (s *Service) GetProfile(ctx context.Context, targetUsername string, viewer *model.User) (model.Profile, error) {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, err
	}

	following := false
	if viewer != nil && viewer.ID != target.ID {
		following, err = s.edges.EdgeExists(ctx, viewer.ID, target.ID, model.RelationFollow)
		if err != nil {
			return model.Profile{}, err
		}
	}

	return profileOf(target, following), nil
}

// resolveOther resolves the target username and rejects self-relationships
func (s *Service) resolveOther(ctx context.Context, actor model.User, targetUsername string) (model.User, error) {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	if target.ID == actor.ID {
		return model.User{}, ErrSelfRelationship
	}
	return target, nil
}

func (s *Service) blockExistsEitherDirection(ctx context.Context, a, b model.User) (bool, error) {
	blocked, err := s.edges.EdgeExists(ctx, a.ID, b.ID, model.RelationBlock)
	if err != nil || blocked {
		return blocked, err
	}
	return s.edges.EdgeExists(ctx, b.ID, a.ID, model.RelationBlock)
}

func profileOf(u model.User, following bool) model.Profile {
	return model.Profile{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	}
}

func (s *Service) record(op, result string) {
	if s.metrics != nil {
		s.metrics.RecordGraphOp(op, result)
	}
}

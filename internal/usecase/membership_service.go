package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/challenge-league/internal/domain/account"
	"github.com/riskibarqy/challenge-league/internal/domain/team"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/platform/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const operationJoinTeam = "join_team"

type JoinTeamInput struct {
	Actor    account.Principal
	TeamID   string
	Username string
}

type MembershipService struct {
	teamRepo    team.Repository
	logger      *logging.Logger
	maxAttempts int
}

func NewMembershipService(teamRepo team.Repository, maxAttempts int, logger *logging.Logger) *MembershipService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	return &MembershipService{
		teamRepo:    teamRepo,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// JoinTeam admits the first pending occurrence of username as a member.
func (s *MembershipService) JoinTeam(ctx context.Context, input JoinTeamInput) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MembershipService.JoinTeam")
	defer span.End()
	defer func() { metrics.RecordMutation(operationJoinTeam, mutationOutcome(err)) }()

	if !input.Actor.IsAdmin {
		return fmt.Errorf("%w: admin role required", ErrUnauthorized)
	}
	teamID := strings.TrimSpace(input.TeamID)
	username := strings.TrimSpace(input.Username)
	if teamID == "" || username == "" {
		return fmt.Errorf("%w: team id and username are required", ErrInvalidInput)
	}
	span.SetAttributes(attribute.String("team.id", teamID), attribute.String("user.username", username))

	err = retryOnConflict(ctx, s.logger, operationJoinTeam, s.maxAttempts, func(ctx context.Context) error {
		current, exists, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
		}

		plan, err := team.PlanAdmission(current, username)
		if err != nil {
			if errors.Is(err, team.ErrMemberNotPending) {
				return fmt.Errorf("%w: %w", ErrNotPending, err)
			}
			return err
		}

		if err := s.teamRepo.AdmitMember(ctx, plan); err != nil {
			return fmt.Errorf("admit team member: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "team member admitted",
		"team_id", teamID,
		"username", username,
		"admitted_by", input.Actor.Username,
	)
	return nil
}

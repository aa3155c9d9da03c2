// Package estimate runs the full estimation pipeline: answer mapping,
// concurrent retrieval of exchange rates and the complexity insight,
// calculation, blending, derivations and currency conversion.
package estimate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/webquote/internal/answers"
	"github.com/Simplici0/webquote/internal/blend"
	"github.com/Simplici0/webquote/internal/currency"
	"github.com/Simplici0/webquote/internal/derive"
	"github.com/Simplici0/webquote/internal/insight"
	"github.com/Simplici0/webquote/internal/intake"
	"github.com/Simplici0/webquote/internal/pricing"
	"github.com/Simplici0/webquote/internal/teamrates"
)

// ErrInvalidRequest marks requests rejected before calculation.
var ErrInvalidRequest = errors.New("invalid estimate request")

// Estimate is one priced run of the pipeline.
type Estimate struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Title     string             `json:"title,omitempty"`
	Notes     string             `json:"notes,omitempty"`
	Answers   answers.Record     `json:"answers"`
	Hints     intake.Hints       `json:"hints"`
	Mapping   intake.Mapping     `json:"mapping"`
	Insight   *insight.Insight   `json:"insight,omitempty"`
	FX        *currency.Snapshot `json:"fx,omitempty"`
	Result    *pricing.Result    `json:"result"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// Request is the input of Run.
type Request struct {
	Title    string                `json:"title"`
	Notes    string                `json:"notes"`
	Answers  answers.Record        `json:"answers"`
	Hints    intake.Hints          `json:"hints"`
	Currency string                `json:"currency,omitempty"`
	Crawl    *insight.CrawlSummary `json:"crawl,omitempty"`
	// SkipInsight forces the deterministic path.
	SkipInsight bool `json:"skip_insight,omitempty"`
}

// CalculateRequest prices explicit parameters. The hourly rate is expressed
// in Currency; the result is converted to Target when it differs.
type CalculateRequest struct {
	Input    pricing.Input `json:"input"`
	Currency string        `json:"currency,omitempty"`
	Target   string        `json:"target,omitempty"`
}

// RoleSource supplies persisted team roles.
type RoleSource interface {
	TeamRoles(ctx context.Context) ([]teamrates.Role, error)
}

// SnapshotSource supplies exchange rates.
type SnapshotSource interface {
	Snapshot(ctx context.Context) currency.Snapshot
}

// Options configures a Service. Only Team is required; nil collaborators
// are skipped.
type Options struct {
	Team    teamrates.Config
	Roles   RoleSource
	FX      SnapshotSource
	Insight insight.Provider
	Logger  zerolog.Logger
}

type Service struct {
	team    teamrates.Config
	roles   RoleSource
	fx      SnapshotSource
	insight insight.Provider
	log     zerolog.Logger
	now     func() time.Time
	newID   func() string
}

func NewService(opts Options) *Service {
	return &Service{
		team:    opts.Team,
		roles:   opts.Roles,
		fx:      opts.FX,
		insight: opts.Insight,
		log:     opts.Logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Run prices an answer record. Insight and exchange-rate failures are
// logged and recorded as warnings; the deterministic estimate still
// completes. Only an unknown tier fails the run.
func (s *Service) Run(ctx context.Context, req Request) (*Estimate, error) {
	if req.Answers == nil {
		req.Answers = answers.Record{}
	}
	if req.Currency != "" && !currency.Supported(req.Currency) {
		return nil, fmt.Errorf("%w: unsupported currency %q", ErrInvalidRequest, req.Currency)
	}

	e := &Estimate{
		ID:        s.newID(),
		CreatedAt: s.now().UTC(),
		Title:     req.Title,
		Notes:     req.Notes,
		Answers:   req.Answers,
		Hints:     req.Hints,
	}
	log := s.log.With().Str("estimate_id", e.ID).Logger()

	team := s.teamConfig(ctx, e)
	m := intake.Map(req.Answers, req.Hints, team)
	e.Mapping = m

	target := m.Currency
	if req.Currency != "" {
		target = currency.Normalize(req.Currency)
	}

	var (
		snap  currency.Snapshot
		found *insight.Insight
	)
	convert := target != m.Currency
	// No group context: a failed insight must not cancel the rate lookup.
	var g errgroup.Group
	if convert {
		g.Go(func() error {
			snap = s.snapshot(ctx)
			return nil
		})
	}
	if s.insight != nil && !req.SkipInsight {
		g.Go(func() error {
			var err error
			found, err = s.insight.Assess(ctx, insight.Request{
				Answers:     req.Answers,
				Crawl:       req.Crawl,
				Multipliers: m.Input.Multipliers,
				Score:       m.Score,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("insight unavailable, using deterministic estimate")
		e.Warnings = append(e.Warnings, "complexity insight unavailable")
		found = nil
	}

	in, from := m.Input, m.Currency
	if convert {
		e.FX = &snap
		if snap.Stale {
			e.Warnings = append(e.Warnings, fmt.Sprintf("exchange rates are stale (%s)", snap.Source))
		}
		in = currency.NormalizeInputToBase(in, from, snap)
		from = snap.Base
	}

	res, err := s.price(req.Answers, in, found, m.Score.BufferPercent)
	if err != nil {
		return nil, err
	}
	res.Currency = from
	if found != nil {
		e.Insight = found
	}

	e.Result = convertResult(res, from, target, snap)
	log.Info().
		Str("project_type", e.Result.ProjectType).
		Str("tier", e.Result.Tier).
		Float64("total_cost", e.Result.TotalCost).
		Str("currency", e.Result.Currency).
		Bool("ai_applied", e.Result.AI != nil && e.Result.AI.Applied).
		Msg("estimate complete")
	return e, nil
}

func (s *Service) price(r answers.Record, in pricing.Input, found *insight.Insight, bufferPercent float64) (*pricing.Result, error) {
	base, err := pricing.Calculate(in)
	if err != nil {
		return nil, fmt.Errorf("calculate estimate: %w", err)
	}

	res := base
	if found != nil {
		res, err = blend.Apply(in, base, *found)
		if err != nil {
			return nil, fmt.Errorf("blend insight: %w", err)
		}
	}

	res = pricing.WithBuffer(res, bufferPercent, in.HourlyRate)
	retainers := derive.Retainers(derive.RetainerInputFromAnswers(r, in.HourlyRate, res.Maintenance))
	plan := derive.PaymentPlan(res.TotalCost)
	return pricing.WithDerived(res, derive.Addons(r, in.HourlyRate), retainers, &plan), nil
}

// Calculate prices explicit parameters without answers or insight.
func (s *Service) Calculate(ctx context.Context, req CalculateRequest) (*pricing.Result, error) {
	from := currency.Normalize(req.Currency)
	if from == "" {
		from = currency.Normalize(s.team.Currency)
	}
	if !currency.Supported(from) {
		return nil, fmt.Errorf("%w: unsupported currency %q", ErrInvalidRequest, req.Currency)
	}
	target := currency.Normalize(req.Target)
	if target == "" {
		target = from
	}
	if !currency.Supported(target) {
		return nil, fmt.Errorf("%w: unsupported currency %q", ErrInvalidRequest, req.Target)
	}

	res, err := pricing.Calculate(req.Input)
	if err != nil {
		return nil, fmt.Errorf("calculate: %w", err)
	}
	res.Currency = from

	if target == from {
		plan := derive.PaymentPlan(res.TotalCost)
		return pricing.WithDerived(res, nil, nil, &plan), nil
	}
	return convertResult(res, from, target, s.snapshot(ctx)), nil
}

// convertResult converts res and picks the payment plan band from the
// converted total, so the plan always matches the quoted currency.
func convertResult(res *pricing.Result, from, to string, snap currency.Snapshot) *pricing.Result {
	out := currency.ConvertResult(res, from, to, snap)
	plan := derive.PaymentPlan(out.TotalCost)
	return pricing.WithDerived(out, out.Addons, out.Retainers, &plan)
}

func (s *Service) snapshot(ctx context.Context) currency.Snapshot {
	if s.fx == nil {
		snap := currency.Static()
		snap.Stale = true
		return snap
	}
	return s.fx.Snapshot(ctx)
}

// teamConfig overlays persisted roles on the configured team.
func (s *Service) teamConfig(ctx context.Context, e *Estimate) teamrates.Config {
	team := s.team
	if s.roles == nil {
		return team
	}
	roles, err := s.roles.TeamRoles(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("load team roles, using configured roles")
		e.Warnings = append(e.Warnings, "team roles unavailable")
		return team
	}
	if len(roles) > 0 {
		team.Roles = roles
	}
	return team
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/longmh299/mcbrother-sub000/internal/analytics"
	"github.com/longmh299/mcbrother-sub000/internal/messaging"
	"github.com/longmh299/mcbrother-sub000/internal/registry"
	"go.uber.org/zap"
)

// RegistryHandler exposes the slug registry over HTTP: the advisory
// checker, admin CRUD, and public token resolution.
type RegistryHandler struct {
	service         *registry.Service
	checker         *registry.Checker
	resolver        *registry.Resolver
	repo            registry.Repository
	publishRenamed  messaging.Publish[analytics.TokenRenamedEvent]
	publishResolved messaging.Publish[analytics.TokenResolvedEvent]
	logger          *zap.Logger
}

// NewRegistryHandler creates the registry handler.
func NewRegistryHandler(
	service *registry.Service,
	checker *registry.Checker,
	resolver *registry.Resolver,
	repo registry.Repository,
	publishRenamed messaging.Publish[analytics.TokenRenamedEvent],
	publishResolved messaging.Publish[analytics.TokenResolvedEvent],
	logger *zap.Logger,
) *RegistryHandler {
	return &RegistryHandler{
		service:         service,
		checker:         checker,
		resolver:        resolver,
		repo:            repo,
		publishRenamed:  publishRenamed,
		publishResolved: publishResolved,
		logger:          logger,
	}
}

func parseKind(s string) (registry.Kind, error) {
	kind, err := registry.ParseKind(s)
	if err != nil {
		return "", huma.Error422UnprocessableEntity("unknown entity kind: "+s, err)
	}

	return kind, nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, huma.Error422UnprocessableEntity("invalid entity id: "+s, err)
	}

	return id, nil
}

// visibilityFor returns the public visibility rule for a kind. Products
// and posts go through a publication workflow; category pages are always
// servable.
func visibilityFor(kind registry.Kind) registry.Visibility {
	switch kind {
	case registry.KindProduct, registry.KindPost:
		return registry.VisiblePublished
	case registry.KindCategory, registry.KindPostCategory:
		return registry.VisibleAlways
	default:
		return registry.VisibleAlways
	}
}

func payloadFrom(entity *registry.Entity) EntityPayload {
	return EntityPayload{
		ID:          entity.ID.String(),
		Kind:        string(entity.Kind),
		Token:       string(entity.Token),
		DisplayName: entity.DisplayName,
		Published:   entity.Published,
		NoIndex:     entity.NoIndex,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func inputFrom(body EntityBody) registry.EntityInput {
	return registry.EntityInput{
		DisplayName: body.DisplayName,
		Token:       registry.Token(body.Token),
		Published:   body.Published,
		NoIndex:     body.NoIndex,
	}
}

// mapWriteError translates domain errors on the authoritative write path.
func mapWriteError(err error) error {
	switch {
	case errors.Is(err, registry.ErrTokenTaken):
		return huma.Error409Conflict("token no longer available, choose another", err)
	case errors.Is(err, registry.ErrEmptyToken):
		return huma.Error422UnprocessableEntity("token and display name are both empty", err)
	case errors.Is(err, registry.ErrNotFound):
		return huma.Error404NotFound("entity not found")
	default:
		return huma.Error500InternalServerError("failed to save entity")
	}
}

// CheckToken answers the debounced availability poll. Storage trouble is
// reported as an inconclusive "available" rather than an error: the form
// must never block on an advisory check.
func (h *RegistryHandler) CheckToken(ctx context.Context, req *CheckTokenRequest) (*CheckTokenResponse, error) {
	kind, err := parseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	var excludeID *uuid.UUID

	if req.ExcludeID != "" {
		id, err := parseID(req.ExcludeID)
		if err != nil {
			return nil, err
		}

		excludeID = &id
	}

	resp := &CheckTokenResponse{}

	available, err := h.checker.Available(ctx, kind, registry.Token(req.Token), excludeID)
	switch {
	case err == nil:
		resp.Body.Available = available
	case errors.Is(err, registry.ErrEmptyToken):
		return nil, huma.Error422UnprocessableEntity("empty token", err)
	default:
		h.logger.Warn("availability check failed",
			zap.String("kind", string(kind)),
			zap.String("token", req.Token),
			zap.Error(err),
		)

		resp.Body.Available = true
		resp.Body.Inconclusive = true
	}

	return resp, nil
}

// CreateEntity handles the admin create form. A conflict surfaces as 409
// with the token untouched; it is never mutated to sidestep the collision.
func (h *RegistryHandler) CreateEntity(ctx context.Context, req *CreateEntityRequest) (*CreateEntityResponse, error) {
	kind, err := parseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	entity, err := h.service.Create(ctx, kind, inputFrom(req.Body))
	if err != nil {
		return nil, mapWriteError(err)
	}

	return &CreateEntityResponse{Body: payloadFrom(entity)}, nil
}

// UpdateEntity handles the admin edit form. A token change emits a rename
// event after the entity and its redirect committed together.
func (h *RegistryHandler) UpdateEntity(ctx context.Context, req *UpdateEntityRequest) (*UpdateEntityResponse, error) {
	kind, err := parseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	entity, previous, err := h.service.Update(ctx, kind, id, inputFrom(req.Body))
	if err != nil {
		return nil, mapWriteError(err)
	}

	if previous != "" {
		meta := RequestMetaFromContext(ctx)
		event := &analytics.TokenRenamedEvent{
			Kind:      string(kind),
			EntityID:  entity.ID.String(),
			FromToken: string(previous),
			ToToken:   string(entity.Token),
			RenamedAt: entity.UpdatedAt,
			ClientIP:  meta.ClientIP,
			UserAgent: meta.UserAgent,
		}

		if err := h.publishRenamed(event); err != nil {
			h.logger.Error("failed to publish rename event",
				zap.String("entityId", event.EntityID),
				zap.Error(err),
			)
		}
	}

	return &UpdateEntityResponse{Body: payloadFrom(entity)}, nil
}

// GetEntity fetches one entity for the back-office, visibility ignored.
func (h *RegistryHandler) GetEntity(ctx context.Context, req *GetEntityRequest) (*GetEntityResponse, error) {
	kind, err := parseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	entity, err := h.repo.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, huma.Error404NotFound("entity not found")
		}

		return nil, huma.Error500InternalServerError("failed to get entity")
	}

	return &GetEntityResponse{Body: payloadFrom(entity)}, nil
}

// ListEntities pages through a kind for the back-office tables.
func (h *RegistryHandler) ListEntities(ctx context.Context, req *ListEntitiesRequest) (*ListEntitiesResponse, error) {
	kind, err := parseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	entities, total, err := h.repo.ListByKind(ctx, kind, req.Limit, req.Offset)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list entities")
	}

	resp := &ListEntitiesResponse{}
	resp.Body.Items = make([]EntityPayload, 0, len(entities))
	resp.Body.Total = total
	resp.Body.Limit = req.Limit
	resp.Body.Offset = req.Offset

	for _, entity := range entities {
		resp.Body.Items = append(resp.Body.Items, payloadFrom(entity))
	}

	return resp, nil
}

// DeleteEntity removes an entity. Redirect records pointing at its tokens
// stay behind, so old links keep resolving until the target 404s.
func (h *RegistryHandler) DeleteEntity(ctx context.Context, req *DeleteEntityRequest) (*DeleteEntityResponse, error) {
	kind, err := parseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Delete(ctx, kind, id); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, huma.Error404NotFound("entity not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete entity")
	}

	return &DeleteEntityResponse{}, nil
}

// ResolveToken serves a public page request: the live entity wins, a
// retired token answers with one permanent-redirect hop, anything else is
// a 404 (no distinction between never-existed and deleted).
func (h *RegistryHandler) ResolveToken(ctx context.Context, req *ResolveRequest) (*ResolveResponse, error) {
	kind, err := parseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	resolution, err := h.resolver.Resolve(ctx, kind, registry.Token(req.Token), visibilityFor(kind))
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to resolve token")
	}

	h.publishResolution(ctx, kind, req.Token, resolution)

	switch resolution.Status {
	case registry.StatusFound:
		return &ResolveResponse{
			Status: http.StatusOK,
			Body:   payloadFrom(resolution.Entity),
		}, nil
	case registry.StatusRedirected:
		resp := &ResolveResponse{Status: http.StatusPermanentRedirect}
		resp.Headers.Location = "/" + string(kind) + "/" + string(resolution.Target)

		return resp, nil
	default:
		return nil, huma.Error404NotFound("not found")
	}
}

func (h *RegistryHandler) publishResolution(
	ctx context.Context, kind registry.Kind, token string, resolution registry.Resolution,
) {
	outcome := "notFound"

	switch resolution.Status {
	case registry.StatusFound:
		outcome = "found"
	case registry.StatusRedirected:
		outcome = "redirected"
	case registry.StatusNotFound:
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.TokenResolvedEvent{
		Kind:       string(kind),
		Token:      token,
		Outcome:    outcome,
		Target:     string(resolution.Target),
		ResolvedAt: time.Now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err := h.publishResolved(event); err != nil {
		h.logger.Error("failed to publish resolve event",
			zap.String("token", token),
			zap.Error(err),
		)
	}
}

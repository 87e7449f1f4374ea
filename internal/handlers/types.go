package handlers

import "time"

// CheckTokenRequest is the advisory availability check, polled by the
// admin form while the editor types.
type CheckTokenRequest struct {
	Kind      string `doc:"Entity kind"                            example:"product"       query:"kind"     required:"true"`
	Token     string `doc:"Candidate token, already slugified"     example:"may-hut-chan-khong" query:"token" required:"true"`
	ExcludeID string `doc:"Id of the record being edited, if any"  format:"uuid"           query:"excludeId"`
}

// CheckTokenResponse reports advisory availability. Inconclusive means the
// check could not reach storage; the form should not block on it.
type CheckTokenResponse struct {
	Body struct {
		Available    bool `doc:"Whether the token is currently free"               json:"available"`
		Inconclusive bool `doc:"Set when storage was unreachable; verdict is a guess" json:"inconclusive,omitempty"`
	}
}

// EntityPayload is the wire shape of an entity.
type EntityPayload struct {
	ID          string    `doc:"Entity id"                 format:"uuid"             json:"id"`
	Kind        string    `doc:"Entity kind"               example:"product"         json:"kind"`
	Token       string    `doc:"URL token"                 example:"may-hut-chan-khong" json:"token"`
	DisplayName string    `doc:"Display name"              example:"Máy Hút Chân Không" json:"displayName"`
	Published   bool      `doc:"Publicly visible"          json:"published"`
	NoIndex     bool      `doc:"Excluded from indexing"    json:"noIndex"`
	CreatedAt   time.Time `doc:"Creation time"             json:"createdAt"`
	UpdatedAt   time.Time `doc:"Last update time"          json:"updatedAt"`
}

// EntityBody carries the editable fields of a create or update. An empty
// token derives one from the display name.
type EntityBody struct {
	DisplayName string `doc:"Display name the token derives from" example:"Máy Hút Chân Không" json:"displayName"`
	Token       string `doc:"Explicit token; empty to derive"     example:""                   json:"token,omitempty"`
	Published   bool   `doc:"Publicly visible"                    json:"published,omitempty"`
	NoIndex     bool   `doc:"Exclude from indexing"               json:"noIndex,omitempty"`
}

// CreateEntityRequest creates an entity of the kind in the path.
type CreateEntityRequest struct {
	Kind string `doc:"Entity kind" example:"product" path:"kind"`
	Body EntityBody
}

// CreateEntityResponse returns the stored entity.
type CreateEntityResponse struct {
	Body EntityPayload
}

// UpdateEntityRequest updates an entity by id.
type UpdateEntityRequest struct {
	Kind string `doc:"Entity kind" example:"product" path:"kind"`
	ID   string `doc:"Entity id"   format:"uuid"     path:"id"`
	Body EntityBody
}

// UpdateEntityResponse returns the stored entity after the update.
type UpdateEntityResponse struct {
	Body EntityPayload
}

// GetEntityRequest fetches an entity by id for the back-office.
type GetEntityRequest struct {
	Kind string `doc:"Entity kind" example:"product" path:"kind"`
	ID   string `doc:"Entity id"   format:"uuid"     path:"id"`
}

// GetEntityResponse returns the entity.
type GetEntityResponse struct {
	Body EntityPayload
}

// ListEntitiesRequest pages through entities of a kind.
type ListEntitiesRequest struct {
	Kind   string `doc:"Entity kind"         example:"product" path:"kind"`
	Limit  int    `doc:"Page size"           default:"20"      maximum:"100" minimum:"1" query:"limit"`
	Offset int    `doc:"Offset into results" default:"0"       minimum:"0"   query:"offset"`
}

// ListEntitiesResponse is one page of entities plus the total count.
type ListEntitiesResponse struct {
	Body struct {
		Items  []EntityPayload `doc:"Entities in creation order, newest first" json:"items"`
		Total  int             `doc:"Total entities of this kind"              json:"total"`
		Limit  int             `doc:"Requested page size"                      json:"limit"`
		Offset int             `doc:"Requested offset"                         json:"offset"`
	}
}

// DeleteEntityRequest removes an entity by id.
type DeleteEntityRequest struct {
	Kind string `doc:"Entity kind" example:"product" path:"kind"`
	ID   string `doc:"Entity id"   format:"uuid"     path:"id"`
}

// DeleteEntityResponse is empty; the operation answers 204.
type DeleteEntityResponse struct{}

// ResolveRequest is a public page request for an entity by token.
type ResolveRequest struct {
	Kind  string `doc:"Entity kind" example:"product"            path:"kind"`
	Token string `doc:"URL token"   example:"may-hut-chan-khong" path:"token"`
}

// ResolveResponse either carries the entity (200) or a permanent redirect
// (308) to the canonical path of the renamed token.
type ResolveResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"Canonical path after a rename" header:"Location"`
	}
	Body EntityPayload
}

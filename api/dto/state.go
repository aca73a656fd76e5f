// nolint
package dto

import (
	"fmt"
	"net/http"
)

const BlockedMessage = "Mutating requests are currently blocked, only routes with AllowMutations override accept them."

type MutationsState struct {
	Blocked bool   `json:"blocked"`
	Message string `json:"message,omitempty"`
}

func (*MutationsState) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type MutationsStateUpdate struct {
	Blocked *bool  `json:"blocked"`
	Actor   string `json:"-"`
}

func (*MutationsStateUpdate) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (update *MutationsStateUpdate) Bind(r *http.Request) error {
	if update.Blocked == nil {
		return fmt.Errorf("blocked can not be empty")
	}
	return nil
}

type Health struct {
	Status string `json:"status"`
}

func (*Health) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

package controller

import (
	"context"
	"fmt"

	"github.com/moira-alert/mutguard"
	"github.com/moira-alert/mutguard/api"
	"github.com/moira-alert/mutguard/api/dto"
)

// GetMutationsState return current answer of policy source.
func GetMutationsState(ctx context.Context, source mutguard.PolicySource) (*dto.MutationsState, *api.ErrorResponse) {
	blocked, err := source.ShouldBlockMutations(ctx)
	if err != nil {
		return nil, api.ErrorInternalServer(&mutguard.PolicySourceError{Err: err})
	}

	state := dto.MutationsState{Blocked: blocked}
	if blocked {
		state.Message = dto.BlockedMessage
	}
	return &state, nil
}

// UpdateMutationsState stores new state in policy source if it supports writes.
func UpdateMutationsState(ctx context.Context, source mutguard.PolicySource, update *dto.MutationsStateUpdate) *api.ErrorResponse {
	writer, ok := source.(mutguard.PolicyStateWriter)
	if !ok {
		return api.ErrorInvalidRequest(fmt.Errorf("policy source does not support state changes"))
	}

	if err := writer.SetBlocked(ctx, *update.Blocked, update.Actor); err != nil {
		return api.ErrorInternalServer(err)
	}
	return nil
}

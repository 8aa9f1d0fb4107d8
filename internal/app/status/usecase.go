package status

import (
	"context"
	"errors"
	"strings"

	"lorekeeper/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid status request")

type UseCase struct {
	CombatRepo ports.CombatRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.EncounterID) == "" {
		return Response{}, ErrInvalidRequest
	}
	state, err := u.CombatRepo.ActiveByEncounter(ctx, req.EncounterID)
	if err != nil {
		return Response{}, err
	}
	resp := Response{Combat: state}
	if current, err := state.CurrentTurn(); err == nil {
		resp.CurrentCharacterID = current.CharacterID
	}
	return resp, nil
}

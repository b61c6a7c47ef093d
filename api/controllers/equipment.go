package controllers

import (
	"net/http"

	"github.com/villaworks/villaserve-backend/api/responses"
	"github.com/villaworks/villaserve-backend/api/validators"
	equipmentsvc "github.com/villaworks/villaserve-backend/internal/equipment"
	"github.com/villaworks/villaserve-backend/pkg/enums"
	pkgerrors "github.com/villaworks/villaserve-backend/pkg/errors"
	"github.com/villaworks/villaserve-backend/pkg/logger"
)

type registerEquipmentRequest struct {
	Kind string `json:"kind" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func EquipmentRegister(svc equipmentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "equipment service unavailable"))
			return
		}

		roomID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload registerEquipmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseEquipmentKind(payload.Kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid equipment kind"))
			return
		}

		device, err := svc.Register(r.Context(), roomID, equipmentsvc.RegisterInput{
			Kind: kind,
			Name: payload.Name,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, device)
	}
}

func EquipmentListByRoom(svc equipmentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "equipment service unavailable"))
			return
		}

		roomID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		devices, err := svc.ListByRoom(r.Context(), roomID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, devices)
	}
}

type setEquipmentStateRequest struct {
	State string `json:"state" validate:"required"`
}

func EquipmentSetState(svc equipmentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "equipment service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setEquipmentStateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := enums.ParseEquipmentState(payload.State)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid equipment state"))
			return
		}

		device, err := svc.SetState(r.Context(), id, state)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, device)
	}
}

// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package api

import (
	"net/http"

	"github.com/tomtom215/bullpen/internal/logging"
	"github.com/tomtom215/bullpen/internal/validation"
)

// Outcomes handles POST /api/v1/outcomes. Each observation pairs a
// prediction served earlier with the runs actually allowed; the window MAE
// after recording them is returned and exported as bms_online_mae.
func (h *Handler) Outcomes(w http.ResponseWriter, r *http.Request) {
	var req OutcomesRequest
	if err := decodeBody(w, r, &req); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeDomainError(w, r, verr)
		return
	}

	var mae float64
	for i := range req.Observations {
		obs := &req.Observations[i]
		v, err := h.mae.Observe(*obs.PredictedRuns, *obs.ActualRuns)
		if err != nil {
			// Validation bounds both values so this only fires on a broken tracker.
			writeDomainError(w, r, err)
			return
		}
		mae = v
	}

	logging.Ctx(r.Context()).Debug().
		Int("observations", len(req.Observations)).
		Float64("mae", mae).
		Msg("Outcomes recorded")

	WriteSuccess(w, r, OutcomesResponse{
		Recorded:    len(req.Observations),
		MAE:         mae,
		WindowCount: h.mae.Count(),
		Window:      h.mae.Window(),
		Total:       h.mae.Total(),
	})
}

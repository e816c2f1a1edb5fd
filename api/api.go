/*
 *  Consent permit ledger issues time-bounded permits and keeps a
 *  tamper-evident chain of action receipts
 *  Copyright (C) 2026 Consentdesk community
 *
 *  This program is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  This program is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *  GNU General Public License for more details.
 *
 *  You should have received a copy of the GNU General Public License
 *  along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/consentdesk/consent-permit-service/audit"
	"github.com/consentdesk/consent-permit-service/domain"
	"github.com/consentdesk/consent-permit-service/domain/ledger"
	"github.com/consentdesk/consent-permit-service/pkg"
)

const version = "1.0.0"

// EchoRouter is the subset of echo used to mount the handlers.
type EchoRouter interface {
	Add(method, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) *echo.Route
}

// Wrapper provides the HTTP surface over the permit service.
type Wrapper struct {
	Se *pkg.PermitService
}

// RegisterHandlers mounts all API routes on the router.
func RegisterHandlers(router EchoRouter, wrapper *Wrapper) {
	router.Add(http.MethodGet, "/api/health", wrapper.Health)
	router.Add(http.MethodGet, "/api/metrics", wrapper.Metrics)
	router.Add(http.MethodPost, "/api/permits/issue", wrapper.IssuePermits)
	router.Add(http.MethodPost, "/api/receipts/generate", wrapper.GenerateReceipts)
	router.Add(http.MethodPost, "/api/receipts/verify", wrapper.VerifyReceipts)
	router.Add(http.MethodGet, "/api/receipts/search", wrapper.SearchReceipts)
	router.Add(http.MethodGet, "/api/receipts/:id", wrapper.GetReceipt)
	router.Add(http.MethodGet, "/api/receipts/:id/attestation", wrapper.AttestReceipt)
	router.Add(http.MethodPost, "/api/chain/verify", wrapper.VerifyChain)
	router.Add(http.MethodGet, "/api/chain/stats", wrapper.ChainStats)
	router.Add(http.MethodGet, "/api/epoch/current", wrapper.CurrentEpoch)
	router.Add(http.MethodPost, "/api/epoch/bump", wrapper.BumpEpoch)
	router.Add(http.MethodGet, "/api/audit/logs", wrapper.AuditLogs)
}

// Health reports liveness.
func (wrapper *Wrapper) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   version,
	})
}

// Metrics reports operational counters.
func (wrapper *Wrapper) Metrics(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, wrapper.Se.Metrics())
}

// IssuePermits handles bulk permit issuance.
func (wrapper *Wrapper) IssuePermits(ctx echo.Context) error {
	request := &IssuePermitsRequest{Count: 1}
	if err := ctx.Bind(request); err != nil {
		ctx.Logger().Error("Could not unmarshal json body:", err)
		return err
	}
	if request.Count < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, domain.ErrInvalidCount.Error())
	}

	result, err := wrapper.Se.IssuePermits(request.Count, apiMetadata2Internal(request.Metadata), actorOf(ctx))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, result)
}

// GenerateReceipts handles bulk receipt minting.
func (wrapper *Wrapper) GenerateReceipts(ctx echo.Context) error {
	request := &GenerateReceiptsRequest{Count: 1}
	if err := ctx.Bind(request); err != nil {
		ctx.Logger().Error("Could not unmarshal json body:", err)
		return err
	}
	if request.Count < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, domain.ErrInvalidCount.Error())
	}
	if request.Action != "" && !ledger.KnownAction(ledger.Action(request.Action)) {
		return echo.NewHTTPError(http.StatusBadRequest, domain.ErrUnknownAction.Error())
	}

	result, err := wrapper.Se.GenerateReceipts(request.Count, ledger.Action(request.Action), request.Metadata, actorOf(ctx))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, result)
}

// VerifyReceipts handles batch point-in-time verification.
func (wrapper *Wrapper) VerifyReceipts(ctx echo.Context) error {
	request := &VerifyReceiptsRequest{}
	if err := ctx.Bind(request); err != nil {
		ctx.Logger().Error("Could not unmarshal json body:", err)
		return err
	}
	if !request.All && request.Range == nil && len(request.ReceiptIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "the request requires receipt_ids, a range or all")
	}

	result, err := wrapper.Se.VerifyReceipts(apiSelection2Internal(*request), actorOf(ctx))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, result)
}

// SearchReceipts filters receipts by query parameters.
func (wrapper *Wrapper) SearchReceipts(ctx echo.Context) error {
	query := pkg.SearchQuery{
		ReceiptID:     ctx.QueryParam("receipt_id"),
		PermitID:      ctx.QueryParam("permit_id"),
		Action:        ledger.Action(ctx.QueryParam("action")),
		MetadataPath:  ctx.QueryParam("metadata_path"),
		MetadataValue: ctx.QueryParam("metadata_value"),
	}
	if raw := ctx.QueryParam("epoch"); raw != "" {
		epoch, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "epoch must be an integer")
		}
		query.Epoch = &epoch
	}
	if raw := ctx.QueryParam("start_date"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "start_date must be RFC3339")
		}
		query.From = &from
	}
	if raw := ctx.QueryParam("end_date"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "end_date must be RFC3339")
		}
		query.To = &to
	}
	query.Page, _ = strconv.Atoi(ctx.QueryParam("page"))
	query.Limit, _ = strconv.Atoi(ctx.QueryParam("limit"))

	result, err := wrapper.Se.SearchReceipts(query)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, result)
}

// GetReceipt returns one receipt with verification status and position.
func (wrapper *Wrapper) GetReceipt(ctx echo.Context) error {
	detail, err := wrapper.Se.GetReceipt(ctx.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, detail)
}

// AttestReceipt exports a receipt as a JWS token.
func (wrapper *Wrapper) AttestReceipt(ctx echo.Context) error {
	id := ctx.Param("id")
	token, err := wrapper.Se.AttestReceipt(id)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, AttestationResponse{ReceiptID: id, Attestation: token})
}

// VerifyChain verifies chain integrity for a window or the full chain.
func (wrapper *Wrapper) VerifyChain(ctx echo.Context) error {
	request := &VerifyChainRequest{Full: true}
	if err := ctx.Bind(request); err != nil {
		ctx.Logger().Error("Could not unmarshal json body:", err)
		return err
	}

	var window *pkg.ReceiptRange
	if !request.Full && request.WindowStart != nil {
		end := wrapper.Se.Ledger.Len()
		if request.WindowEnd != nil {
			end = *request.WindowEnd
		}
		window = &pkg.ReceiptRange{Start: *request.WindowStart, End: end}
	}

	result, err := wrapper.Se.VerifyChain(window, actorOf(ctx))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, result)
}

// ChainStats returns head/tail hashes, length and epoch.
func (wrapper *Wrapper) ChainStats(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, wrapper.Se.ChainStats())
}

// CurrentEpoch returns the epoch counter and bump metadata.
func (wrapper *Wrapper) CurrentEpoch(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, wrapper.Se.CurrentEpoch())
}

// BumpEpoch triggers a mass revocation.
func (wrapper *Wrapper) BumpEpoch(ctx echo.Context) error {
	request := &BumpEpochRequest{}
	if err := ctx.Bind(request); err != nil {
		ctx.Logger().Error("Could not unmarshal json body:", err)
		return err
	}

	result, err := wrapper.Se.BumpEpoch(request.Reason, request.RequestedBy)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, result)
}

// AuditLogs queries the audit trail of mutating API calls.
func (wrapper *Wrapper) AuditLogs(ctx echo.Context) error {
	query := audit.Query{
		EventType: ctx.QueryParam("event_type"),
		Actor:     ctx.QueryParam("user_id"),
	}
	if raw := ctx.QueryParam("start_date"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "start_date must be RFC3339")
		}
		query.From = &from
	}
	if raw := ctx.QueryParam("end_date"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "end_date must be RFC3339")
		}
		query.To = &to
	}
	query.Page, _ = strconv.Atoi(ctx.QueryParam("page"))
	query.Limit, _ = strconv.Atoi(ctx.QueryParam("limit"))

	return ctx.JSON(http.StatusOK, wrapper.Se.AuditLogs(query))
}

// actorOf names the caller for audit purposes. Authentication is out of
// scope; the header is advisory.
func actorOf(ctx echo.Context) string {
	if actor := ctx.Request().Header.Get("X-Requested-By"); actor != "" {
		return actor
	}
	return "system"
}

func httpError(err error) error {
	switch {
	case errors.Is(err, domain.ErrReceiptNotFound), errors.Is(err, domain.ErrPermitNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidCount),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInvalidReason),
		errors.Is(err, domain.ErrUnknownAction):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

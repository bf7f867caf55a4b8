package controllers

import (
	"net/http"

	"github.com/lockwise/lockshop-backend/api/responses"
	"github.com/lockwise/lockshop-backend/api/validators"
	"github.com/lockwise/lockshop-backend/internal/identity"
	jobsvc "github.com/lockwise/lockshop-backend/internal/jobs"
	"github.com/lockwise/lockshop-backend/pkg/enums"
	pkgerrors "github.com/lockwise/lockshop-backend/pkg/errors"
	"github.com/lockwise/lockshop-backend/pkg/logger"
)

// CreateJob opens a new service ticket.
func CreateJob(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := staffActor(w, r, svc, logg)
		if !ok {
			return
		}

		var payload jobsvc.CreateJobInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, err := svc.Create(r.Context(), actor, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "job created", job)
	}
}

// GetJob fetches a single ticket by id.
func GetJob(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		id, err := parseIDParam(r, "jobID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "job fetched", job)
	}
}

// ListJobs pages the ticket list with optional status and city filters.
func ListJobs(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters jobsvc.ListFilters
		if raw := validators.ParseQueryString(r, "job_status", maxQueryStringLength); raw != "" {
			status, parseErr := enums.ParseJobStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid job_status"))
				return
			}
			filters.JobStatus = &status
		}
		if raw := validators.ParseQueryString(r, "job_payment_status", maxQueryStringLength); raw != "" {
			status, parseErr := enums.ParsePaymentStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid job_payment_status"))
				return
			}
			filters.JobPaymentStatus = &status
		}
		filters.City = validators.ParseQueryString(r, "city", maxQueryStringLength)

		list, err := svc.List(r.Context(), jobsvc.ListInput{
			Filters:    filters,
			Pagination: params,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "jobs listed", list)
	}
}

// UpdateJob advances a ticket's statuses and merges the optional fields.
func UpdateJob(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := staffActor(w, r, svc, logg)
		if !ok {
			return
		}

		id, err := parseIDParam(r, "jobID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload jobsvc.UpdateJobInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, err := svc.Update(r.Context(), actor, id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "job updated", job)
	}
}

// DeleteJob removes a ticket permanently.
func DeleteJob(svc jobsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
			return
		}

		id, err := parseIDParam(r, "jobID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "job deleted", nil)
	}
}

func staffActor(w http.ResponseWriter, r *http.Request, svc jobsvc.Service, logg *logger.Logger) (identity.Actor, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "job service unavailable"))
		return identity.Actor{}, false
	}
	actor, ok := identity.FromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return identity.Actor{}, false
	}
	return actor, true
}

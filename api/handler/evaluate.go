package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/carscope/models"
	"github.com/use-agent/carscope/service"
)

// Evaluate returns a handler for POST /api/v1/evaluate.
//
// Flow:
//  1. Parse EvaluateRequest.
//  2. Evaluator: validate → extract (URL path) → narrate.
//  3. Assemble response with per-phase timing.
func Evaluate(eval *service.Evaluator) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.EvaluateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.EvaluateResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
				Timing: models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()},
			})
			return
		}

		result, timing, err := eval.Evaluate(c.Request.Context(), &req)
		timing.TotalMs = time.Since(totalStart).Milliseconds()

		if err != nil {
			respondEvaluateError(c, err, timing)
			return
		}

		c.JSON(http.StatusOK, models.EvaluateResponse{
			Success:        true,
			CarData:        &result.CarData,
			Evaluation:     result.Evaluation,
			Recommendation: result.Recommendation,
			Score:          result.Score,
			Timing:         timing,
		})
	}
}

// respondEvaluateError maps an EvalError to the correct HTTP status and
// writes a structured JSON error response.
func respondEvaluateError(c *gin.Context, err error, timing models.TimingInfo) {
	var evalErr *models.EvalError
	if !errors.As(err, &evalErr) {
		evalErr = models.NewEvalError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(evalErr), models.EvaluateResponse{
		Success: false,
		Error:   evalErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.EvalError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput, models.ErrCodeInvalidCarData:
		return http.StatusBadRequest
	case models.ErrCodeFieldsMissing:
		return http.StatusUnprocessableEntity
	case models.ErrCodeScrapeTimeout:
		return http.StatusGatewayTimeout
	case models.ErrCodeChallenge, models.ErrCodeScrapeFailed, models.ErrCodeBrowserCrash, models.ErrCodeNarration:
		return http.StatusBadGateway
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

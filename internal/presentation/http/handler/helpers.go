package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/cafepos-api/internal/application/service"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/cafepos-api/internal/presentation/http/middleware"
	"github.com/sangkips/cafepos-api/pkg/apperror"
	"github.com/sangkips/cafepos-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) uint {
	id, _ := c.Get(middleware.ContextUserID)
	uid, _ := id.(uint)
	return uid
}

// GetActor builds the service actor from the authenticated claims.
// It writes a 401 and returns false when the request is anonymous.
func GetActor(c *gin.Context) (service.Actor, bool) {
	uid := GetUserID(c)
	if uid == 0 {
		response.Unauthorized(c, "User not authenticated")
		return service.Actor{}, false
	}
	role, _ := c.Get(middleware.ContextRole)
	r, _ := role.(enum.Role)
	return service.Actor{
		UserID: uid,
		Email:  c.GetString(middleware.ContextEmail),
		Role:   r,
		Branch: c.GetString(middleware.ContextBranch),
	}, true
}

// bindJSON decodes the body into req. Validation failures become a 422 with
// per-field errors, anything else a 400.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if fields, ok := request.FieldErrors(err); ok {
			response.ValidationError(c, fields)
			return false
		}
		response.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryUint reads an optional numeric query parameter
func queryUint(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperror.NewFieldError(name, "Must be a positive number")
	}
	u := uint(v)
	return &u, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter as midnight in loc
func queryDate(c *gin.Context, name string, loc *time.Location) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return nil, apperror.NewFieldError(name, "Must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

// dateRange reads from/to as an inclusive day range and returns it half-open:
// the upper bound is midnight after the to date.
func dateRange(c *gin.Context, loc *time.Location) (from, to *time.Time, err error) {
	if from, err = queryDate(c, "from", loc); err != nil {
		return nil, nil, err
	}
	if to, err = queryDate(c, "to", loc); err != nil {
		return nil, nil, err
	}
	if to != nil {
		next := to.AddDate(0, 0, 1)
		to = &next
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, apperror.NewFieldError("to", "Must not be before from")
	}
	return from, to, nil
}

func pageParams(c *gin.Context) *pagination.PaginationParams {
	return pagination.FromQuery(c.Query("page"), c.Query("per_page"))
}

// branchOf returns the ?branch= override or the caller's own branch
func branchOf(c *gin.Context, actor service.Actor) string {
	if b := c.Query("branch"); b != "" {
		return b
	}
	return actor.Branch
}

package mockapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/hostel/pkg/domain"
)

func filterFromQuery(c *gin.Context) (domain.AllocationFilter, bool) {
	f := domain.AllocationFilter{
		StudentName: c.Query("studentName"),
		RoomNo:      c.Query("roomNo"),
	}
	if y := c.Query("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			failWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{"year": "year must be a number"})
			return f, false
		}
		f.Year = year
	}
	return f, true
}

// CurrentAllocations godoc
// GET /api/allocations/current?studentName=&roomNo=&year=
func (h *handlers) CurrentAllocations(c *gin.Context) {
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.store.listAllocations(f, false))
}

// AllAllocations godoc
// GET /api/allocations/currentAll
func (h *handlers) AllAllocations(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.listAllocations(domain.AllocationFilter{}, false))
}

// AllocationHistory godoc
// GET /api/allocations/history?studentName=&roomNo=&year=
func (h *handlers) AllocationHistory(c *gin.Context) {
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.store.listAllocations(f, true))
}

package mockapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hostelhub/hostel/pkg/domain"
)

// ListRooms godoc
// GET /rooms/rooms-view?showAll=true
// Without showAll only rooms with a free bed are listed.
func (h *handlers) ListRooms(c *gin.Context) {
	showAll, _ := strconv.ParseBool(c.Query("showAll"))
	c.JSON(http.StatusOK, h.store.listRooms(showAll))
}

// GetRoom godoc
// GET /rooms/:roomNo
func (h *handlers) GetRoom(c *gin.Context) {
	room, err := h.store.room(c.Param("roomNo"))
	if err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// CreateRoom godoc
// POST /rooms
func (h *handlers) CreateRoom(c *gin.Context) {
	var req domain.CreateRoomRequest
	if !bind(c, &req) {
		return
	}
	room, err := h.store.addRoom(req)
	if err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// DeleteRoom godoc
// DELETE /rooms/:roomNo
// Occupied rooms cannot be removed.
func (h *handlers) DeleteRoom(c *gin.Context) {
	if err := h.store.deleteRoom(c.Param("roomNo")); err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room deleted"})
}

package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hostelhub/hostel/pkg/domain"
)

// --- Rooms ---

// ListRooms returns rooms; showAll includes full rooms.
func (c *Client) ListRooms(ctx context.Context, showAll bool) ([]domain.Room, error) {
	params := url.Values{}
	params.Set("showAll", strconv.FormatBool(showAll))

	var rooms []domain.Room
	if err := c.get(ctx, "/rooms/rooms-view?"+params.Encode(), &rooms); err != nil {
		return nil, fmt.Errorf("client.ListRooms: %w", err)
	}
	return rooms, nil
}

// GetRoom fetches a single room by number.
func (c *Client) GetRoom(ctx context.Context, roomNo string) (*domain.Room, error) {
	var room domain.Room
	if err := c.get(ctx, "/rooms/"+url.PathEscape(roomNo), &room); err != nil {
		return nil, fmt.Errorf("client.GetRoom: %w", err)
	}
	return &room, nil
}

// CreateRoom adds a room (warden).
func (c *Client) CreateRoom(ctx context.Context, req domain.CreateRoomRequest) (*domain.Room, error) {
	var room domain.Room
	if err := c.post(ctx, "/rooms", req, &room); err != nil {
		return nil, fmt.Errorf("client.CreateRoom: %w", err)
	}
	return &room, nil
}

// DeleteRoom removes a room (warden).
func (c *Client) DeleteRoom(ctx context.Context, roomNo string) error {
	if err := c.del(ctx, "/rooms/"+url.PathEscape(roomNo)); err != nil {
		return fmt.Errorf("client.DeleteRoom: %w", err)
	}
	return nil
}

// --- Leaves ---

// ListLeaves returns every leave request (warden).
func (c *Client) ListLeaves(ctx context.Context) ([]domain.Leave, error) {
	var leaves []domain.Leave
	if err := c.get(ctx, "/leaves/all", &leaves); err != nil {
		return nil, fmt.Errorf("client.ListLeaves: %w", err)
	}
	return leaves, nil
}

// ListStudentLeaves returns a student's leave history.
func (c *Client) ListStudentLeaves(ctx context.Context, studentID string) ([]domain.Leave, error) {
	var leaves []domain.Leave
	if err := c.get(ctx, "/leaves/student/"+url.PathEscape(studentID), &leaves); err != nil {
		return nil, fmt.Errorf("client.ListStudentLeaves: %w", err)
	}
	return leaves, nil
}

// ApplyLeave files a leave request.
func (c *Client) ApplyLeave(ctx context.Context, req domain.ApplyLeaveRequest) (*domain.Leave, error) {
	var leave domain.Leave
	if err := c.post(ctx, "/leaves/add", req, &leave); err != nil {
		return nil, fmt.Errorf("client.ApplyLeave: %w", err)
	}
	return &leave, nil
}

// UpdateLeaveStatus approves or rejects a leave (warden).
func (c *Client) UpdateLeaveStatus(ctx context.Context, id int, status domain.LeaveStatus) error {
	path := "/leaves/" + strconv.Itoa(id) + "/status"
	if err := c.put(ctx, path, map[string]domain.LeaveStatus{"status": status}, nil); err != nil {
		return fmt.Errorf("client.UpdateLeaveStatus: %w", err)
	}
	return nil
}

// --- Complaints ---

// ListComplaints returns all complaints.
func (c *Client) ListComplaints(ctx context.Context) ([]domain.Complaint, error) {
	var complaints []domain.Complaint
	if err := c.get(ctx, "/complaints/all", &complaints); err != nil {
		return nil, fmt.Errorf("client.ListComplaints: %w", err)
	}
	return complaints, nil
}

// ListStudentComplaints returns complaints filed by one student.
func (c *Client) ListStudentComplaints(ctx context.Context, studentID string) ([]domain.Complaint, error) {
	var complaints []domain.Complaint
	if err := c.get(ctx, "/complaints/"+url.PathEscape(studentID), &complaints); err != nil {
		return nil, fmt.Errorf("client.ListStudentComplaints: %w", err)
	}
	return complaints, nil
}

// AddComplaint files a complaint.
func (c *Client) AddComplaint(ctx context.Context, req domain.AddComplaintRequest) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := c.post(ctx, "/complaints/add", req, &complaint); err != nil {
		return nil, fmt.Errorf("client.AddComplaint: %w", err)
	}
	return &complaint, nil
}

// DeleteComplaint withdraws a complaint.
func (c *Client) DeleteComplaint(ctx context.Context, id int) error {
	if err := c.del(ctx, "/complaints/"+strconv.Itoa(id)); err != nil {
		return fmt.Errorf("client.DeleteComplaint: %w", err)
	}
	return nil
}

// UpdateComplaintStatus moves a complaint to status (warden).
func (c *Client) UpdateComplaintStatus(ctx context.Context, id int, status domain.ComplaintStatus) error {
	params := url.Values{}
	params.Set("status", string(status))
	if err := c.put(ctx, "/complaints/"+strconv.Itoa(id)+"?"+params.Encode(), nil, nil); err != nil {
		return fmt.Errorf("client.UpdateComplaintStatus: %w", err)
	}
	return nil
}

// --- Notices ---

// ListNotices returns all notices, newest first.
func (c *Client) ListNotices(ctx context.Context) ([]domain.Notice, error) {
	var notices []domain.Notice
	if err := c.get(ctx, "/notices/all", &notices); err != nil {
		return nil, fmt.Errorf("client.ListNotices: %w", err)
	}
	return notices, nil
}

// GetNotice fetches one notice.
func (c *Client) GetNotice(ctx context.Context, id int) (*domain.Notice, error) {
	var notice domain.Notice
	if err := c.get(ctx, "/notices/"+strconv.Itoa(id), &notice); err != nil {
		return nil, fmt.Errorf("client.GetNotice: %w", err)
	}
	return &notice, nil
}

// CreateNotice publishes a notice (warden).
func (c *Client) CreateNotice(ctx context.Context, req domain.NoticeRequest) (*domain.Notice, error) {
	var notice domain.Notice
	if err := c.post(ctx, "/notices/create", req, &notice); err != nil {
		return nil, fmt.Errorf("client.CreateNotice: %w", err)
	}
	return &notice, nil
}

// UpdateNotice edits a notice (warden).
func (c *Client) UpdateNotice(ctx context.Context, id int, req domain.NoticeRequest) error {
	if err := c.put(ctx, "/notices/update/"+strconv.Itoa(id), req, nil); err != nil {
		return fmt.Errorf("client.UpdateNotice: %w", err)
	}
	return nil
}

// DeleteNotice removes a notice (warden).
func (c *Client) DeleteNotice(ctx context.Context, id int) error {
	if err := c.del(ctx, "/notices/delete/"+strconv.Itoa(id)); err != nil {
		return fmt.Errorf("client.DeleteNotice: %w", err)
	}
	return nil
}

// --- Allocations ---

// CurrentAllocations returns current allocations matching filter.
func (c *Client) CurrentAllocations(ctx context.Context, filter domain.AllocationFilter) ([]domain.Allocation, error) {
	var allocs []domain.Allocation
	if err := c.get(ctx, "/api/allocations/current"+filterQuery(filter), &allocs); err != nil {
		return nil, fmt.Errorf("client.CurrentAllocations: %w", err)
	}
	return allocs, nil
}

// AllAllocations returns every current allocation without filtering.
func (c *Client) AllAllocations(ctx context.Context) ([]domain.Allocation, error) {
	var allocs []domain.Allocation
	if err := c.get(ctx, "/api/allocations/currentAll", &allocs); err != nil {
		return nil, fmt.Errorf("client.AllAllocations: %w", err)
	}
	return allocs, nil
}

// AllocationHistory returns past and present allocations matching filter.
func (c *Client) AllocationHistory(ctx context.Context, filter domain.AllocationFilter) ([]domain.Allocation, error) {
	var allocs []domain.Allocation
	if err := c.get(ctx, "/api/allocations/history"+filterQuery(filter), &allocs); err != nil {
		return nil, fmt.Errorf("client.AllocationHistory: %w", err)
	}
	return allocs, nil
}

// --- Students ---

// GetProfile returns a student's profile.
func (c *Client) GetProfile(ctx context.Context, studentID string) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.get(ctx, "/students/"+url.PathEscape(studentID)+"/profile", &p); err != nil {
		return nil, fmt.Errorf("client.GetProfile: %w", err)
	}
	return &p, nil
}

// UpdateProfile edits a student's name and phone.
func (c *Client) UpdateProfile(ctx context.Context, studentID string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	var p domain.Profile
	if err := c.put(ctx, "/students/"+url.PathEscape(studentID)+"/profile", upd, &p); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return &p, nil
}

func filterQuery(f domain.AllocationFilter) string {
	params := url.Values{}
	if f.StudentName != "" {
		params.Set("studentName", f.StudentName)
	}
	if f.RoomNo != "" {
		params.Set("roomNo", f.RoomNo)
	}
	if f.Year > 0 {
		params.Set("year", strconv.Itoa(f.Year))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

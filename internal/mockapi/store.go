package mockapi

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hostelhub/hostel/pkg/domain"
)

var (
	errNotFound = errors.New("not found")
	errConflict = errors.New("already exists")
	errOccupied = errors.New("room occupied")
)

type user struct {
	domain.Profile
	hash       []byte
	resetToken string
}

// Store is the backend's in-memory dataset.
type Store struct {
	mu          sync.RWMutex
	users       []*user
	rooms       []domain.Room
	leaves      []domain.Leave
	complaints  []domain.Complaint
	notices     []domain.Notice
	allocations []domain.Allocation
	nextID      int
	now         func() time.Time
}

// SeedPassword is the password of every seeded account.
const SeedPassword = "password"

// Seeded accounts.
const (
	SeedStudentEmail = "student@hostel.test"
	SeedStudentID    = "501"
	SeedWardenEmail  = "warden@hostel.test"
	SeedWardenID     = "w-1"
)

// NewStore returns a store with the demo dataset. hash hashes seed passwords.
func NewStore(hash func(string) ([]byte, error)) (*Store, error) {
	pw, err := hash(SeedPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	day := 24 * time.Hour

	s := &Store{nextID: 100, now: time.Now}
	s.users = []*user{
		{Profile: domain.Profile{ID: SeedStudentID, Name: "Aditya Singh", Email: SeedStudentEmail, Phone: "9876543210", Role: domain.RoleStudent}, hash: pw},
		{Profile: domain.Profile{ID: "502", Name: "Sonia Patel", Email: "sonia@hostel.test", Phone: "9000011111", Role: domain.RoleStudent}, hash: pw},
		{Profile: domain.Profile{ID: SeedWardenID, Name: "Meera Rao", Email: SeedWardenEmail, Role: domain.RoleWarden}, hash: pw},
	}
	s.rooms = []domain.Room{
		{RoomNo: "101", Category: "Single", Photos: []string{"https://picsum.photos/seed/room101/400/300"}, Size: 1, CurrOccu: 0, Fees: 15000},
		{RoomNo: "102", Category: "Double", Photos: []string{"https://picsum.photos/seed/room102/400/300"}, Size: 2, CurrOccu: 2, Fees: 10000},
		{RoomNo: "201", Category: "Triple", Photos: []string{"https://picsum.photos/seed/room201/400/300"}, Size: 3, CurrOccu: 1, Fees: 8000},
		{RoomNo: "305", Category: "Suite", Size: 1, CurrOccu: 1, Fees: 25000},
	}
	s.notices = []domain.Notice{
		{ID: 1, Title: "Mess Timings Update", Description: "New dinner timings are effective from tomorrow: 7:00 PM to 8:30 PM.", CreatedAt: ago(day)},
		{ID: 2, Title: "Semester Fee Payment Deadline", Description: "Last date for fee payment is Oct 30. Penalty will apply thereafter.", CreatedAt: ago(4 * day)},
	}
	s.complaints = []domain.Complaint{
		{ID: 1, StudentID: SeedStudentID, Subject: "Leaky Faucet in Bathroom", Status: domain.ComplaintPending, CreatedAt: ago(time.Hour)},
		{ID: 2, StudentID: "502", Subject: "Slow WiFi Speed", Status: domain.ComplaintProcessing, CreatedAt: ago(2 * time.Hour)},
		{ID: 3, StudentID: SeedStudentID, Subject: "Broken Window Pane", Status: domain.ComplaintResolved, CreatedAt: ago(day)},
		{ID: 4, StudentID: "502", Subject: "Pest Control Needed", Status: domain.ComplaintPending, CreatedAt: ago(3 * day)},
	}
	s.leaves = []domain.Leave{
		{ID: 1, StudentID: SeedStudentID, StartDate: "2025-10-07", EndDate: "2025-10-10", Reason: "Family function.", Status: domain.LeavePending, CreatedAt: ago(5 * day)},
		{ID: 2, StudentID: "502", StartDate: "2025-10-15", EndDate: "2025-10-17", Reason: "Medical appointment.", Status: domain.LeaveApproved, CreatedAt: ago(3 * day)},
	}
	vacated := ago(200 * day)
	s.allocations = []domain.Allocation{
		{ID: uuid.NewString(), StudentID: SeedStudentID, StudentName: "Aditya Singh", RoomNo: "102", AllocatedAt: ago(120 * day)},
		{ID: uuid.NewString(), StudentID: "502", StudentName: "Sonia Patel", RoomNo: "201", AllocatedAt: ago(90 * day)},
		{ID: uuid.NewString(), StudentID: SeedStudentID, StudentName: "Aditya Singh", RoomNo: "101", AllocatedAt: ago(400 * day), VacatedAt: &vacated},
	}
	return s, nil
}

func (s *Store) id() int {
	s.nextID++
	return s.nextID
}

// --- users ---

func (s *Store) userByEmail(email string) (*user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return nil, false
}

func (s *Store) profile(id string) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u.Profile, nil
		}
	}
	return domain.Profile{}, errNotFound
}

func (s *Store) addUser(p domain.Profile, hash []byte) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, p.Email) {
			return domain.Profile{}, errConflict
		}
	}
	p.ID = uuid.NewString()
	s.users = append(s.users, &user{Profile: p, hash: hash})
	return p, nil
}

func (s *Store) updateProfile(id string, upd domain.ProfileUpdate) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			u.Name = upd.Name
			u.Phone = upd.Phone
			return u.Profile, nil
		}
	}
	return domain.Profile{}, errNotFound
}

func (s *Store) setResetToken(email, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			u.resetToken = token
			return true
		}
	}
	return false
}

func (s *Store) resetPassword(token string, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if token != "" && u.resetToken == token {
			u.hash = hash
			u.resetToken = ""
			return nil
		}
	}
	return errNotFound
}

// --- rooms ---

func (s *Store) listRooms(showAll bool) []domain.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		if showAll || r.Vacancies() > 0 {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) room(no string) (domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rooms {
		if r.RoomNo == no {
			return r, nil
		}
	}
	return domain.Room{}, errNotFound
}

func (s *Store) addRoom(req domain.CreateRoomRequest) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		if r.RoomNo == req.RoomNo {
			return domain.Room{}, errConflict
		}
	}
	r := domain.Room{RoomNo: req.RoomNo, Category: req.Category, Size: req.Size, Fees: req.Fees}
	s.rooms = append(s.rooms, r)
	return r, nil
}

func (s *Store) deleteRoom(no string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.rooms, func(r domain.Room) bool { return r.RoomNo == no })
	if i < 0 {
		return errNotFound
	}
	if s.rooms[i].CurrOccu > 0 {
		return errOccupied
	}
	s.rooms = slices.Delete(s.rooms, i, i+1)
	return nil
}

// --- leaves ---

func (s *Store) listLeaves(studentID string) []domain.Leave {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Leave, 0, len(s.leaves))
	for _, l := range s.leaves {
		if studentID == "" || l.StudentID == studentID {
			out = append(out, l)
		}
	}
	return out
}

func (s *Store) addLeave(req domain.ApplyLeaveRequest) domain.Leave {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := domain.Leave{
		ID:        s.id(),
		StudentID: req.StudentID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
		Status:    domain.LeavePending,
		CreatedAt: s.now().UTC(),
	}
	s.leaves = append(s.leaves, l)
	return l
}

func (s *Store) setLeaveStatus(id int, status domain.LeaveStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.leaves {
		if s.leaves[i].ID == id {
			s.leaves[i].Status = status
			return nil
		}
	}
	return errNotFound
}

// --- complaints ---

func (s *Store) listComplaints(studentID string) []domain.Complaint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Complaint, 0, len(s.complaints))
	for _, c := range s.complaints {
		if studentID == "" || c.StudentID == studentID {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) addComplaint(req domain.AddComplaintRequest) domain.Complaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := domain.Complaint{
		ID:          s.id(),
		StudentID:   req.StudentID,
		Subject:     req.Subject,
		Description: req.Description,
		Status:      domain.ComplaintPending,
		CreatedAt:   s.now().UTC(),
	}
	s.complaints = append(s.complaints, c)
	return c
}

// deleteComplaint removes a complaint owned by studentID.
func (s *Store) deleteComplaint(id int, studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.complaints, func(c domain.Complaint) bool {
		return c.ID == id && c.StudentID == studentID
	})
	if i < 0 {
		return errNotFound
	}
	s.complaints = slices.Delete(s.complaints, i, i+1)
	return nil
}

func (s *Store) setComplaintStatus(id int, status domain.ComplaintStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.complaints {
		if s.complaints[i].ID == id {
			s.complaints[i].Status = status
			return nil
		}
	}
	return errNotFound
}

// --- notices ---

func (s *Store) listNotices() []domain.Notice {
	s.mu.RLock()
	out := slices.Clone(s.notices)
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b domain.Notice) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (s *Store) notice(id int) (domain.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notices {
		if n.ID == id {
			return n, nil
		}
	}
	return domain.Notice{}, errNotFound
}

func (s *Store) addNotice(req domain.NoticeRequest) domain.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := domain.Notice{ID: s.id(), Title: req.Title, Description: req.Description, CreatedAt: s.now().UTC()}
	s.notices = append(s.notices, n)
	return n
}

func (s *Store) updateNotice(id int, req domain.NoticeRequest) (domain.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notices {
		if s.notices[i].ID == id {
			s.notices[i].Title = req.Title
			s.notices[i].Description = req.Description
			return s.notices[i], nil
		}
	}
	return domain.Notice{}, errNotFound
}

func (s *Store) deleteNotice(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.notices, func(n domain.Notice) bool { return n.ID == id })
	if i < 0 {
		return errNotFound
	}
	s.notices = slices.Delete(s.notices, i, i+1)
	return nil
}

// --- allocations ---

func (s *Store) listAllocations(f domain.AllocationFilter, history bool) []domain.Allocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Allocation, 0, len(s.allocations))
	for _, a := range s.allocations {
		if !history && !a.Current() {
			continue
		}
		if f.RoomNo != "" && a.RoomNo != f.RoomNo {
			continue
		}
		if f.StudentName != "" && !strings.Contains(strings.ToLower(a.StudentName), strings.ToLower(f.StudentName)) {
			continue
		}
		if f.Year > 0 && a.AllocatedAt.Year() != f.Year {
			continue
		}
		out = append(out, a)
	}
	return out
}

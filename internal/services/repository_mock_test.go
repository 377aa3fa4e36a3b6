package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/shoubhik18/lms-admin-service/internal/models"
	"github.com/shoubhik18/lms-admin-service/internal/repositories"
)

// mockRepository is an in-memory Repository shared by the service tests.
// WithTransaction snapshots all state before running the callback and
// restores it when the callback fails, so tests can assert rollback
// behavior without a database.
type mockRepository struct {
	nextID  uint
	txCalls int

	users           map[uint]*models.User
	adminProfiles   map[uint]*models.AdminProfile // keyed by user id
	trainerProfiles map[uint]*models.TrainerProfile
	studentProfiles map[uint]*models.StudentProfile
	courses         map[uint]*models.Course
	chapters        map[uint]*models.Chapter
	sessions        map[uint]*models.Session
	batches         map[uint]*models.Batch
	enrollments     []models.BatchStudent
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:           make(map[uint]*models.User),
		adminProfiles:   make(map[uint]*models.AdminProfile),
		trainerProfiles: make(map[uint]*models.TrainerProfile),
		studentProfiles: make(map[uint]*models.StudentProfile),
		courses:         make(map[uint]*models.Course),
		chapters:        make(map[uint]*models.Chapter),
		sessions:        make(map[uint]*models.Session),
		batches:         make(map[uint]*models.Batch),
	}
}

func (m *mockRepository) id() uint {
	m.nextID++
	return m.nextID
}

func (m *mockRepository) User() repositories.UserRepository             { return &mockUserRepo{m} }
func (m *mockRepository) Profile() repositories.ProfileRepository       { return &mockProfileRepo{m} }
func (m *mockRepository) Course() repositories.CourseRepository         { return &mockCourseRepo{m} }
func (m *mockRepository) Chapter() repositories.ChapterRepository       { return &mockChapterRepo{m} }
func (m *mockRepository) Session() repositories.SessionRepository       { return &mockSessionRepo{m} }
func (m *mockRepository) Batch() repositories.BatchRepository           { return &mockBatchRepo{m} }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository { return &mockEnrollmentRepo{m} }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	m.txCalls++
	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

type mockState struct {
	nextID          uint
	users           map[uint]*models.User
	adminProfiles   map[uint]*models.AdminProfile
	trainerProfiles map[uint]*models.TrainerProfile
	studentProfiles map[uint]*models.StudentProfile
	courses         map[uint]*models.Course
	chapters        map[uint]*models.Chapter
	sessions        map[uint]*models.Session
	batches         map[uint]*models.Batch
	enrollments     []models.BatchStudent
}

func (m *mockRepository) snapshot() mockState {
	return mockState{
		nextID:          m.nextID,
		users:           copyMap(m.users),
		adminProfiles:   copyMap(m.adminProfiles),
		trainerProfiles: copyMap(m.trainerProfiles),
		studentProfiles: copyMap(m.studentProfiles),
		courses:         copyMap(m.courses),
		chapters:        copyMap(m.chapters),
		sessions:        copyMap(m.sessions),
		batches:         copyMap(m.batches),
		enrollments:     append([]models.BatchStudent(nil), m.enrollments...),
	}
}

func (m *mockRepository) restore(s mockState) {
	m.nextID = s.nextID
	m.users = s.users
	m.adminProfiles = s.adminProfiles
	m.trainerProfiles = s.trainerProfiles
	m.studentProfiles = s.studentProfiles
	m.courses = s.courses
	m.chapters = s.chapters
	m.sessions = s.sessions
	m.batches = s.batches
	m.enrollments = s.enrollments
}

func copyMap[V any](src map[uint]V) map[uint]V {
	dst := make(map[uint]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func sortedKeys[V any](src map[uint]V) []uint {
	keys := make([]uint, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ===== USER =====

type mockUserRepo struct{ m *mockRepository }

func (r *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range r.m.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.m.id()
	stored := *user
	r.m.users[user.ID] = &stored
	return nil
}

func (r *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, ok := r.m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *mockUserRepo) GetByIDWithAssociations(ctx context.Context, id uint) (*models.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch user.Category {
	case models.CategoryAdmin:
		user.AdminProfile = r.m.adminProfiles[id]
	case models.CategoryTrainer:
		user.TrainerProfile = r.m.trainerProfiles[id]
	case models.CategoryStudent:
		user.StudentProfile = r.m.studentProfiles[id]
		for _, row := range r.m.enrollments {
			if row.StudentID == id {
				if batch, ok := r.m.batches[row.BatchID]; ok {
					user.Batches = append(user.Batches, *batch)
				}
			}
		}
	}
	return user, nil
}

func (r *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var matched []*models.User
	for _, id := range sortedKeys(r.m.users) {
		user := r.m.users[id]
		if filters.Category != nil && user.Category != *filters.Category {
			continue
		}
		if filters.Query != "" && !strings.Contains(user.Name, filters.Query) && !strings.Contains(user.Email, filters.Query) {
			continue
		}
		clone := *user
		matched = append(matched, &clone)
	}
	return paginate(matched, filters.Limit, filters.Offset), int64(len(matched)), nil
}

func (r *mockUserRepo) Search(ctx context.Context, query string, filters repositories.UserFilters) ([]*models.User, int64, error) {
	filters.Query = query
	return r.List(ctx, filters)
}

func (r *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *user
	r.m.users[user.ID] = &stored
	return nil
}

func (r *mockUserRepo) Delete(ctx context.Context, id uint) (bool, error) {
	if _, ok := r.m.users[id]; !ok {
		return false, nil
	}
	delete(r.m.users, id)
	return true, nil
}

func (r *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, user := range r.m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockUserRepo) HasCategory(ctx context.Context, id uint, category models.UserCategory) (bool, error) {
	user, ok := r.m.users[id]
	return ok && user.Category == category, nil
}

func (r *mockUserRepo) FilterByCategory(ctx context.Context, ids []uint, category models.UserCategory) ([]uint, error) {
	var valid []uint
	seen := make(map[uint]struct{})
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if user, ok := r.m.users[id]; ok && user.Category == category {
			valid = append(valid, id)
		}
	}
	return valid, nil
}

// ===== PROFILE =====

type mockProfileRepo struct{ m *mockRepository }

func (r *mockProfileRepo) CreateAdmin(ctx context.Context, profile *models.AdminProfile) error {
	profile.ID = r.m.id()
	stored := *profile
	r.m.adminProfiles[profile.UserID] = &stored
	return nil
}

func (r *mockProfileRepo) CreateTrainer(ctx context.Context, profile *models.TrainerProfile) error {
	profile.ID = r.m.id()
	stored := *profile
	r.m.trainerProfiles[profile.UserID] = &stored
	return nil
}

func (r *mockProfileRepo) CreateStudent(ctx context.Context, profile *models.StudentProfile) error {
	profile.ID = r.m.id()
	stored := *profile
	r.m.studentProfiles[profile.UserID] = &stored
	return nil
}

func (r *mockProfileRepo) GetAdminByUser(ctx context.Context, userID uint) (*models.AdminProfile, error) {
	profile, ok := r.m.adminProfiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *profile
	return &clone, nil
}

func (r *mockProfileRepo) GetTrainerByUser(ctx context.Context, userID uint) (*models.TrainerProfile, error) {
	profile, ok := r.m.trainerProfiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *profile
	return &clone, nil
}

func (r *mockProfileRepo) GetStudentByUser(ctx context.Context, userID uint) (*models.StudentProfile, error) {
	profile, ok := r.m.studentProfiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *profile
	return &clone, nil
}

func (r *mockProfileRepo) UpdateAdmin(ctx context.Context, profile *models.AdminProfile) error {
	stored := *profile
	r.m.adminProfiles[profile.UserID] = &stored
	return nil
}

func (r *mockProfileRepo) UpdateTrainer(ctx context.Context, profile *models.TrainerProfile) error {
	stored := *profile
	r.m.trainerProfiles[profile.UserID] = &stored
	return nil
}

func (r *mockProfileRepo) UpdateStudent(ctx context.Context, profile *models.StudentProfile) error {
	stored := *profile
	r.m.studentProfiles[profile.UserID] = &stored
	return nil
}

func (r *mockProfileRepo) DeleteByUser(ctx context.Context, userID uint, category models.UserCategory) error {
	switch category {
	case models.CategoryAdmin:
		delete(r.m.adminProfiles, userID)
	case models.CategoryTrainer:
		delete(r.m.trainerProfiles, userID)
	case models.CategoryStudent:
		delete(r.m.studentProfiles, userID)
	}
	return nil
}

func (r *mockProfileRepo) CountStudentsByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	for _, profile := range r.m.studentProfiles {
		if profile.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

// ===== COURSE =====

type mockCourseRepo struct{ m *mockRepository }

func (r *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = r.m.id()
	stored := *course
	r.m.courses[course.ID] = &stored
	return nil
}

func (r *mockCourseRepo) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, ok := r.m.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *course
	return &clone, nil
}

func (r *mockCourseRepo) GetByIDWithDetails(ctx context.Context, id uint) (*models.Course, error) {
	course, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Trainer = r.m.users[course.TrainerID]
	for _, uid := range sortedKeys(r.m.studentProfiles) {
		if profile := r.m.studentProfiles[uid]; profile.CourseID == id {
			course.EnrolledStudents = append(course.EnrolledStudents, *profile)
		}
	}
	return course, nil
}

func (r *mockCourseRepo) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var matched []*models.Course
	for _, id := range sortedKeys(r.m.courses) {
		course := r.m.courses[id]
		if filters.TrainerID != nil && course.TrainerID != *filters.TrainerID {
			continue
		}
		if filters.Query != "" && !strings.Contains(course.CourseName, filters.Query) {
			continue
		}
		clone := *course
		matched = append(matched, &clone)
	}
	return paginate(matched, filters.Limit, filters.Offset), int64(len(matched)), nil
}

func (r *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := r.m.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *course
	r.m.courses[course.ID] = &stored
	return nil
}

func (r *mockCourseRepo) Delete(ctx context.Context, id uint) (bool, error) {
	if _, ok := r.m.courses[id]; !ok {
		return false, nil
	}
	delete(r.m.courses, id)
	return true, nil
}

func (r *mockCourseRepo) Exists(ctx context.Context, id uint) (bool, error) {
	_, ok := r.m.courses[id]
	return ok, nil
}

func (r *mockCourseRepo) CountBatches(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	for _, batch := range r.m.batches {
		if batch.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (r *mockCourseRepo) GetEnrolledStudentIDs(ctx context.Context, courseID uint) ([]uint, error) {
	var ids []uint
	for _, uid := range sortedKeys(r.m.studentProfiles) {
		if r.m.studentProfiles[uid].CourseID == courseID {
			ids = append(ids, uid)
		}
	}
	return ids, nil
}

// ===== CHAPTER / SESSION =====

type mockChapterRepo struct{ m *mockRepository }

func (r *mockChapterRepo) Create(ctx context.Context, chapter *models.Chapter) error {
	chapter.ID = r.m.id()
	stored := *chapter
	r.m.chapters[chapter.ID] = &stored
	return nil
}

func (r *mockChapterRepo) GetByID(ctx context.Context, id uint) (*models.Chapter, error) {
	chapter, ok := r.m.chapters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *chapter
	for _, sid := range sortedKeys(r.m.sessions) {
		if session := r.m.sessions[sid]; session.ChapterID == id {
			clone.Sessions = append(clone.Sessions, *session)
		}
	}
	return &clone, nil
}

func (r *mockChapterRepo) List(ctx context.Context, filters repositories.ChapterFilters) ([]*models.Chapter, int64, error) {
	var matched []*models.Chapter
	for _, id := range sortedKeys(r.m.chapters) {
		chapter := r.m.chapters[id]
		if filters.CourseID != nil && chapter.CourseID != *filters.CourseID {
			continue
		}
		clone := *chapter
		matched = append(matched, &clone)
	}
	return paginate(matched, filters.Limit, filters.Offset), int64(len(matched)), nil
}

func (r *mockChapterRepo) Update(ctx context.Context, chapter *models.Chapter) error {
	if _, ok := r.m.chapters[chapter.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *chapter
	stored.Sessions = nil
	r.m.chapters[chapter.ID] = &stored
	return nil
}

func (r *mockChapterRepo) Delete(ctx context.Context, id uint) (bool, error) {
	if _, ok := r.m.chapters[id]; !ok {
		return false, nil
	}
	delete(r.m.chapters, id)
	return true, nil
}

type mockSessionRepo struct{ m *mockRepository }

func (r *mockSessionRepo) Create(ctx context.Context, session *models.Session) error {
	session.ID = r.m.id()
	stored := *session
	r.m.sessions[session.ID] = &stored
	return nil
}

func (r *mockSessionRepo) CreateBatch(ctx context.Context, sessions []*models.Session) error {
	for _, session := range sessions {
		if err := r.Create(ctx, session); err != nil {
			return err
		}
	}
	return nil
}

func (r *mockSessionRepo) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	session, ok := r.m.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *session
	return &clone, nil
}

func (r *mockSessionRepo) ListByChapter(ctx context.Context, chapterID uint) ([]*models.Session, error) {
	var matched []*models.Session
	for _, id := range sortedKeys(r.m.sessions) {
		if session := r.m.sessions[id]; session.ChapterID == chapterID {
			clone := *session
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (r *mockSessionRepo) Update(ctx context.Context, session *models.Session) error {
	if _, ok := r.m.sessions[session.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *session
	r.m.sessions[session.ID] = &stored
	return nil
}

func (r *mockSessionRepo) Delete(ctx context.Context, id uint) (bool, error) {
	if _, ok := r.m.sessions[id]; !ok {
		return false, nil
	}
	delete(r.m.sessions, id)
	return true, nil
}

func (r *mockSessionRepo) DeleteByChapter(ctx context.Context, chapterID uint) error {
	for id, session := range r.m.sessions {
		if session.ChapterID == chapterID {
			delete(r.m.sessions, id)
		}
	}
	return nil
}

// ===== BATCH =====

type mockBatchRepo struct{ m *mockRepository }

func (r *mockBatchRepo) Create(ctx context.Context, batch *models.Batch) error {
	batch.ID = r.m.id()
	stored := *batch
	r.m.batches[batch.ID] = &stored
	return nil
}

func (r *mockBatchRepo) GetByID(ctx context.Context, id uint) (*models.Batch, error) {
	batch, ok := r.m.batches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *batch
	return &clone, nil
}

func (r *mockBatchRepo) GetByIDWithDetails(ctx context.Context, id uint) (*models.Batch, error) {
	batch, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	batch.Trainer = r.m.users[batch.TrainerID]
	batch.Course = r.m.courses[batch.CourseID]
	for _, row := range r.m.enrollments {
		if row.BatchID == id {
			if user, ok := r.m.users[row.StudentID]; ok {
				batch.EnrolledStudents = append(batch.EnrolledStudents, *user)
			}
		}
	}
	return batch, nil
}

func (r *mockBatchRepo) List(ctx context.Context, filters repositories.BatchFilters) ([]*models.Batch, int64, error) {
	var matched []*models.Batch
	for _, id := range sortedKeys(r.m.batches) {
		batch := r.m.batches[id]
		if filters.TrainerID != nil && batch.TrainerID != *filters.TrainerID {
			continue
		}
		if filters.CourseID != nil && batch.CourseID != *filters.CourseID {
			continue
		}
		clone := *batch
		matched = append(matched, &clone)
	}
	return paginate(matched, filters.Limit, filters.Offset), int64(len(matched)), nil
}

func (r *mockBatchRepo) Update(ctx context.Context, batch *models.Batch) error {
	if _, ok := r.m.batches[batch.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *batch
	r.m.batches[batch.ID] = &stored
	return nil
}

func (r *mockBatchRepo) Delete(ctx context.Context, id uint) (bool, error) {
	if _, ok := r.m.batches[id]; !ok {
		return false, nil
	}
	delete(r.m.batches, id)
	return true, nil
}

func (r *mockBatchRepo) Exists(ctx context.Context, id uint) (bool, error) {
	_, ok := r.m.batches[id]
	return ok, nil
}

// ===== ENROLLMENT =====

type mockEnrollmentRepo struct{ m *mockRepository }

func (r *mockEnrollmentRepo) ReplaceForBatch(ctx context.Context, batchID uint, studentIDs []uint) error {
	if err := r.DeleteByBatch(ctx, batchID); err != nil {
		return err
	}
	for _, studentID := range studentIDs {
		r.m.enrollments = append(r.m.enrollments, models.BatchStudent{
			ID:        r.m.id(),
			BatchID:   batchID,
			StudentID: studentID,
		})
	}
	return nil
}

func (r *mockEnrollmentRepo) ReplaceForStudent(ctx context.Context, studentID uint, batchIDs []uint) error {
	if err := r.DeleteByStudent(ctx, studentID); err != nil {
		return err
	}
	for _, batchID := range batchIDs {
		r.m.enrollments = append(r.m.enrollments, models.BatchStudent{
			ID:        r.m.id(),
			BatchID:   batchID,
			StudentID: studentID,
		})
	}
	return nil
}

func (r *mockEnrollmentRepo) GetStudentIDs(ctx context.Context, batchID uint) ([]uint, error) {
	var ids []uint
	for _, row := range r.m.enrollments {
		if row.BatchID == batchID {
			ids = append(ids, row.StudentID)
		}
	}
	return ids, nil
}

func (r *mockEnrollmentRepo) GetBatchesByStudent(ctx context.Context, studentID uint) ([]*models.Batch, error) {
	var batches []*models.Batch
	for _, row := range r.m.enrollments {
		if row.StudentID == studentID {
			if batch, ok := r.m.batches[row.BatchID]; ok {
				clone := *batch
				batches = append(batches, &clone)
			}
		}
	}
	return batches, nil
}

func (r *mockEnrollmentRepo) DeleteByStudent(ctx context.Context, studentID uint) error {
	kept := r.m.enrollments[:0]
	for _, row := range r.m.enrollments {
		if row.StudentID != studentID {
			kept = append(kept, row)
		}
	}
	r.m.enrollments = kept
	return nil
}

func (r *mockEnrollmentRepo) DeleteByBatch(ctx context.Context, batchID uint) error {
	kept := r.m.enrollments[:0]
	for _, row := range r.m.enrollments {
		if row.BatchID != batchID {
			kept = append(kept, row)
		}
	}
	r.m.enrollments = kept
	return nil
}

// ===== SEED HELPERS =====

func seedTrainer(m *mockRepository, email string) uint {
	id := m.id()
	m.users[id] = &models.User{ID: id, Name: "Trainer", Email: email, Mobile: "9999999999", Category: models.CategoryTrainer}
	m.trainerProfiles[id] = &models.TrainerProfile{ID: m.id(), UserID: id, Role: models.TrainerSenior}
	return id
}

func seedStudent(m *mockRepository, email string, courseID uint) uint {
	id := m.id()
	m.users[id] = &models.User{ID: id, Name: "Student", Email: email, Mobile: "8888888888", Category: models.CategoryStudent}
	m.studentProfiles[id] = &models.StudentProfile{ID: m.id(), UserID: id, CourseID: courseID, LearningMode: models.LearningOnline}
	return id
}

func seedCourse(m *mockRepository, trainerID uint) uint {
	id := m.id()
	m.courses[id] = &models.Course{ID: id, CourseName: "Go Fundamentals", TrainerID: trainerID, TotalPrice: 4999, AvailabilityType: models.AvailabilityAlways}
	return id
}

func seedBatch(m *mockRepository, trainerID, courseID uint) uint {
	id := m.id()
	m.batches[id] = &models.Batch{ID: id, TrainerID: trainerID, CourseID: courseID}
	return id
}

// staticHasher keeps the tests fast; bcrypt is covered by its own tests.
type staticHasher struct{}

func (staticHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (staticHasher) Compare(hashed, password string) error {
	if hashed != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

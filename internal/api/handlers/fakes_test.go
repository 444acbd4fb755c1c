package handlers_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"quizcraft/internal/auth"
	"quizcraft/internal/db"
	"quizcraft/internal/gemini"
	"quizcraft/internal/models"

	"github.com/google/uuid"
)

// fakeVerifier resolves "token-for:<uuid>" bearer tokens.
type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	const prefix = "token-for:"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return nil, auth.ErrInvalidToken
	}
	id, err := uuid.Parse(token[len(prefix):])
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Identity{ID: id, Email: "user@example.com"}, nil
}

func tokenFor(id uuid.UUID) string {
	return "token-for:" + id.String()
}

// fakeGenerator returns a canned draft or error without touching the model.
type fakeGenerator struct {
	draft *models.QuizDraft
	err   error

	calls    int
	lastText string
	lastN    int
	lastDiff gemini.Difficulty
}

func (g *fakeGenerator) GenerateQuiz(_ context.Context, text string, numQuestions int, difficulty gemini.Difficulty) (*models.QuizDraft, error) {
	g.calls++
	g.lastText = text
	g.lastN = numQuestions
	g.lastDiff = difficulty
	if g.err != nil {
		return nil, g.err
	}
	return g.draft, nil
}

func quizParams(owner uuid.UUID) db.CreateQuizParams {
	return db.CreateQuizParams{
		OwnerID:    owner,
		Title:      "France Basics",
		SourceType: models.SourceText,
		Questions:  parisDraft().Questions,
	}
}

func updateParams(id uuid.UUID, title *string, isPublic *bool) db.UpdateQuizParams {
	return db.UpdateQuizParams{ID: id, Title: title, IsPublic: isPublic}
}

// fakeStore is an in-memory db.Store.
type fakeStore struct {
	users   map[uuid.UUID]*models.User
	quizzes map[uuid.UUID]*models.Quiz
	notes   map[uuid.UUID]*models.Note

	failCreateQuiz bool
	writes         int
}

var _ db.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[uuid.UUID]*models.User),
		quizzes: make(map[uuid.UUID]*models.Quiz),
		notes:   make(map[uuid.UUID]*models.Note),
	}
}

func (s *fakeStore) GetOrCreateUser(_ context.Context, id uuid.UUID, email string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		u.Email = email
		return u, nil
	}
	s.writes++
	u := &models.User{ID: id, Email: email, Plan: models.PlanFree, CreatedAt: time.Now()}
	s.users[id] = u
	return u, nil
}

func (s *fakeStore) GetUserPlan(_ context.Context, id uuid.UUID) (models.PlanTier, error) {
	if u, ok := s.users[id]; ok {
		return u.Plan, nil
	}
	return models.PlanFree, nil
}

func (s *fakeStore) CreateQuiz(_ context.Context, params db.CreateQuizParams) (*models.Quiz, error) {
	if s.failCreateQuiz {
		return nil, errors.New("insert failed")
	}
	s.writes++
	quiz := &models.Quiz{
		ID:         uuid.New(),
		OwnerID:    params.OwnerID,
		Title:      params.Title,
		SourceType: params.SourceType,
		CreatedAt:  time.Now(),
	}
	for i, q := range params.Questions {
		quiz.Questions = append(quiz.Questions, models.Question{
			ID:       uuid.New(),
			QuizID:   quiz.ID,
			Position: i,
			Text:     q.Question,
			Options:  q.Options,
			Answer:   q.Answer,
		})
	}
	s.quizzes[quiz.ID] = quiz
	return quiz, nil
}

func (s *fakeStore) GetQuiz(_ context.Context, id uuid.UUID) (*models.Quiz, error) {
	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *quiz
	return &copied, nil
}

func (s *fakeStore) GetQuizByShareToken(_ context.Context, token string) (*models.Quiz, error) {
	for _, quiz := range s.quizzes {
		if quiz.IsPublic && quiz.ShareToken != nil && *quiz.ShareToken == token {
			copied := *quiz
			return &copied, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *fakeStore) ListQuizzesByOwner(_ context.Context, ownerID uuid.UUID) ([]models.QuizSummary, error) {
	var out []models.QuizSummary
	for _, quiz := range s.quizzes {
		if quiz.OwnerID != ownerID {
			continue
		}
		out = append(out, models.QuizSummary{
			ID:            quiz.ID,
			Title:         quiz.Title,
			SourceType:    quiz.SourceType,
			IsPublic:      quiz.IsPublic,
			QuestionCount: len(quiz.Questions),
			CreatedAt:     quiz.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStore) UpdateQuiz(_ context.Context, params db.UpdateQuizParams) (*models.Quiz, error) {
	quiz, ok := s.quizzes[params.ID]
	if !ok {
		return nil, db.ErrNotFound
	}
	s.writes++
	if params.Title != nil {
		quiz.Title = *params.Title
	}
	if params.IsPublic != nil {
		quiz.IsPublic = *params.IsPublic
	}
	copied := *quiz
	return &copied, nil
}

func (s *fakeStore) SetQuizShareToken(_ context.Context, id uuid.UUID, token string) error {
	quiz, ok := s.quizzes[id]
	if !ok {
		return db.ErrNotFound
	}
	s.writes++
	quiz.ShareToken = &token
	quiz.IsPublic = true
	return nil
}

func (s *fakeStore) DeleteQuiz(_ context.Context, id uuid.UUID) error {
	if _, ok := s.quizzes[id]; !ok {
		return db.ErrNotFound
	}
	s.writes++
	delete(s.quizzes, id)
	return nil
}

func (s *fakeStore) CreateNote(_ context.Context, ownerID uuid.UUID, title, content string) (*models.Note, error) {
	s.writes++
	note := &models.Note{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.notes[note.ID] = note
	return note, nil
}

func (s *fakeStore) GetNote(_ context.Context, id uuid.UUID) (*models.Note, error) {
	note, ok := s.notes[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	copied := *note
	return &copied, nil
}

func (s *fakeStore) ListNotesByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Note, error) {
	var out []models.Note
	for _, note := range s.notes {
		if note.OwnerID == ownerID {
			out = append(out, *note)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStore) CountNotesByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	for _, note := range s.notes {
		if note.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) UpdateNote(_ context.Context, params db.UpdateNoteParams) (*models.Note, error) {
	note, ok := s.notes[params.ID]
	if !ok {
		return nil, db.ErrNotFound
	}
	s.writes++
	if params.Title != nil {
		note.Title = *params.Title
	}
	if params.Content != nil {
		note.Content = *params.Content
	}
	note.UpdatedAt = time.Now()
	copied := *note
	return &copied, nil
}

func (s *fakeStore) DeleteNote(_ context.Context, id uuid.UUID) error {
	if _, ok := s.notes[id]; !ok {
		return db.ErrNotFound
	}
	s.writes++
	delete(s.notes, id)
	return nil
}

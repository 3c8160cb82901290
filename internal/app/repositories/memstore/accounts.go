package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/edulearn/backend/internal/app/models"
	"github.com/edulearn/backend/internal/pkg/apperrors"
)

type adminRepo struct{ s *Store }

func (r *adminRepo) Create(_ context.Context, admin *models.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	for _, a := range r.s.st.admins {
		if a.Email == admin.Email {
			return apperrors.ErrAdminAlreadyExists
		}
	}
	now := r.s.now()
	admin.ID = r.s.st.next("admins")
	admin.CreatedAt, admin.UpdatedAt = now, now
	r.s.st.admins[admin.ID] = cloneAdmin(admin)
	return nil
}

func (r *adminRepo) GetByID(_ context.Context, id int64) (*models.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.st.admins[id]
	if !ok {
		return nil, apperrors.ErrAdminNotFound
	}
	return cloneAdmin(a), nil
}

func (r *adminRepo) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range r.s.st.admins {
		if a.Email == email {
			return cloneAdmin(a), nil
		}
	}
	return nil, apperrors.ErrAdminNotFound
}

func (r *adminRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.st.admins)), nil
}

func (r *adminRepo) DeleteAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := int64(len(r.s.st.admins))
	r.s.st.admins = map[int64]*models.Admin{}
	return n, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.s.st.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	if user.Preferences.Theme == "" {
		user.Preferences = models.DefaultPreferences()
	}
	now := r.s.now()
	user.ID = r.s.st.next("users")
	user.CreatedAt, user.UpdatedAt = now, now
	user.Bookmarks = []int64{}
	r.s.st.users[user.ID] = cloneUser(user)
	return nil
}

func (r *userRepo) withBookmarks(u *models.User) *models.User {
	c := cloneUser(u)
	c.Bookmarks = r.bookmarkIDs(u.ID)
	return c
}

func (r *userRepo) bookmarkIDs(userID int64) []int64 {
	ids := []int64{}
	for _, b := range r.s.st.bookmarks[userID] {
		ids = append(ids, b.contentID)
	}
	return ids
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.st.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return r.withBookmarks(u), nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.st.users {
		if u.Email == email {
			return r.withBookmarks(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// AddBookmark is idempotent, mirroring ON CONFLICT DO NOTHING
func (r *userRepo) AddBookmark(_ context.Context, userID, contentID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.users[userID]; !ok {
		return apperrors.ErrUserNotFound
	}
	if _, ok := r.s.st.contents[contentID]; !ok {
		return apperrors.ErrContentNotFound
	}
	for _, b := range r.s.st.bookmarks[userID] {
		if b.contentID == contentID {
			return nil
		}
	}
	r.s.st.bookmarks[userID] = append(r.s.st.bookmarks[userID], bookmark{contentID: contentID, at: r.s.now()})
	return nil
}

func (r *userRepo) RemoveBookmark(_ context.Context, userID, contentID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	list := r.s.st.bookmarks[userID]
	for i, b := range list {
		if b.contentID == contentID {
			r.s.st.bookmarks[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *userRepo) ListBookmarks(_ context.Context, userID int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := append([]bookmark(nil), r.s.st.bookmarks[userID]...)
	sort.SliceStable(list, func(i, j int) bool { return list[i].at.Before(list[j].at) })
	ids := []int64{}
	for _, b := range list {
		ids = append(ids, b.contentID)
	}
	return ids, nil
}

func (r *userRepo) DeleteAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := int64(len(r.s.st.users))
	r.s.st.users = map[int64]*models.User{}
	r.s.st.bookmarks = map[int64][]bookmark{}
	r.s.st.progress = map[int64]*models.ProgressEntry{}
	return n, nil
}

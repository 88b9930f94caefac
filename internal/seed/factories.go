// Package seed fills a board database with demo data. It is intended for
// development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"

	"mmorpgboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options controls how much demo data Seed creates.
type Options struct {
	Users          int
	Posts          int
	RepliesPerPost int
	// MaxDays spreads created_at over the last MaxDays days.
	MaxDays int
	Clean   bool
	// Seed makes the generated content reproducible when non-zero.
	Seed int64
}

// Summary reports what Seed created.
type Summary struct {
	Users   int
	Posts   int
	Replies int
}

// Factory builds board entities with fake content.
type Factory struct {
	faker *gofakeit.Faker
	opts  Options
	now   time.Time
}

// NewFactory creates a Factory. A zero opts.Seed picks a random seed.
func NewFactory(opts Options) *Factory {
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	return &Factory{
		faker: gofakeit.New(opts.Seed),
		opts:  opts,
		now:   time.Now(),
	}
}

func (f *Factory) createdAt() time.Time {
	back := time.Duration(f.faker.IntRange(0, f.opts.MaxDays*24*60)) * time.Minute
	return f.now.Add(-back)
}

// BuildUser returns a verified, active user. n keeps usernames unique within
// one run.
func (f *Factory) BuildUser(n int) *models.User {
	name := strings.ToLower(strings.ReplaceAll(f.faker.Username(), " ", ""))
	name = fmt.Sprintf("%s_%d", name, n)
	return &models.User{
		Username:   name,
		Email:      name + "@example.com",
		IsVerified: true,
		IsActive:   true,
	}
}

// BuildPost returns an ad in a random category owned by user.
func (f *Factory) BuildPost(user *models.User) *models.Post {
	cat := models.Categories[f.faker.IntRange(0, len(models.Categories)-1)]
	created := f.createdAt()
	return &models.Post{
		Title:     fmt.Sprintf("%s: %s", cat.Label, f.faker.Sentence(5)),
		Content:   f.faker.Paragraph(1, 3, 8, "\n"),
		Category:  cat.Code,
		IsActive:  f.faker.Bool() || f.faker.Bool(),
		UserID:    user.ID,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// BuildReply returns a reply by user to post, created after the post.
func (f *Factory) BuildReply(post *models.Post, user *models.User) *models.Reply {
	created := post.CreatedAt.Add(time.Duration(f.faker.IntRange(1, 600)) * time.Minute)
	if created.After(f.now) {
		created = f.now
	}
	return &models.Reply{
		PostID:    post.ID,
		UserID:    user.ID,
		Text:      f.faker.Sentence(12),
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// Seed creates opts.Users users, opts.Posts posts spread over them and up to
// opts.RepliesPerPost replies per post from other users.
func Seed(db *gorm.DB, opts Options) (*Summary, error) {
	if opts.Users < 1 {
		return nil, fmt.Errorf("seed: at least one user is required")
	}
	f := NewFactory(opts)
	summary := &Summary{}

	err := db.Transaction(func(tx *gorm.DB) error {
		if opts.Clean {
			if err := clearData(tx); err != nil {
				return err
			}
		}

		users := make([]*models.User, 0, opts.Users)
		for i := 0; i < opts.Users; i++ {
			users = append(users, f.BuildUser(i+1))
		}
		if err := tx.Omit("Posts").Create(&users).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		summary.Users = len(users)

		for i := 0; i < opts.Posts; i++ {
			owner := users[i%len(users)]
			post := f.BuildPost(owner)
			if err := tx.Omit("User").Create(post).Error; err != nil {
				return fmt.Errorf("seed post: %w", err)
			}
			summary.Posts++

			if len(users) < 2 || opts.RepliesPerPost <= 0 {
				continue
			}
			n := f.faker.IntRange(0, opts.RepliesPerPost)
			for j := 0; j < n; j++ {
				replier := users[(i+1+j)%len(users)]
				if replier.ID == owner.ID {
					continue
				}
				reply := f.BuildReply(post, replier)
				if err := tx.Omit("Post", "User").Create(reply).Error; err != nil {
					return fmt.Errorf("seed reply: %w", err)
				}
				summary.Replies++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// clearData removes every board row, children first.
func clearData(tx *gorm.DB) error {
	for _, model := range []interface{}{&models.Reply{}, &models.Post{}, &models.OneTimeCode{}, &models.User{}} {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

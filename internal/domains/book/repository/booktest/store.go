// Package booktest provides an in-memory book and category store for tests.
package booktest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"freewriter/internal/domains/book/model"
	"freewriter/internal/domains/book/repository"
	"freewriter/internal/domains/category"
)

// Store keeps the invariants the database enforces: unique book and category slugs,
// id (insertion) ordering and atomic book creation.
type Store struct {
	mu         sync.Mutex
	books      []model.Book
	links      map[int64][]int64
	categories []category.Category
	nextBook   int64
	nextCat    int64

	// Err, when set, is returned by every repository call.
	Err error
}

func NewStore() *Store {
	return &Store{links: map[int64][]int64{}}
}

// AddCategory inserts a category and returns it with its id.
func (s *Store) AddCategory(name, slug string) category.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCat++
	c := category.Category{ID: s.nextCat, Name: name, Slug: slug}
	s.categories = append(s.categories, c)
	return c
}

// AddBook inserts b as is (slug uniqueness is not checked) and links the categories.
func (s *Store) AddBook(b model.Book, categoryIDs ...int64) model.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBook++
	b.ID = s.nextBook
	b.Categories = nil
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	s.books = append(s.books, b)
	s.links[b.ID] = append([]int64(nil), categoryIDs...)
	return b
}

// Book returns a copy of the stored book.
func (s *Store) Book(id int64) (model.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.books {
		if b.ID == id {
			return b, true
		}
	}
	return model.Book{}, false
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.books)
}

// Links returns the category ids of a book.
func (s *Store) Links(bookID int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.links[bookID]...)
}

func (s *Store) Books() repository.BookRepository {
	return &bookRepo{s}
}

func (s *Store) Categories() category.CategoryRepository {
	return &categoryRepo{s}
}

func (s *Store) filter(keep func(model.Book) bool) []model.Book {
	out := []model.Book{}
	for _, b := range s.books {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) categoryNames(bookID int64) []string {
	var names []string
	for _, id := range s.links[bookID] {
		for _, c := range s.categories {
			if c.ID == id {
				names = append(names, c.Name)
			}
		}
	}
	return names
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ============================================
// BookRepository
// ============================================

type bookRepo struct{ s *Store }

func (r *bookRepo) ListAll(ctx context.Context) ([]model.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.s.filter(func(model.Book) bool { return true }), nil
}

func (r *bookRepo) ListByCategory(ctx context.Context, categoryID int64) ([]model.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.s.filter(func(b model.Book) bool {
		for _, id := range r.s.links[b.ID] {
			if id == categoryID {
				return true
			}
		}
		return false
	}), nil
}

func (r *bookRepo) ListByFlag(ctx context.Context, flag model.Flag) ([]model.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.s.filter(func(b model.Book) bool {
		switch flag {
		case model.FlagFiction:
			return b.Fiction
		case model.FlagBusiness:
			return b.Business
		default:
			return b.Recommended
		}
	}), nil
}

func (r *bookRepo) ListFirst(ctx context.Context, limit int) ([]model.Book, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *bookRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return int64(len(r.s.books)), nil
}

func (r *bookRepo) GetBySlug(ctx context.Context, slug string) (*model.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, b := range r.s.books {
		if b.Slug == slug {
			cp := b
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *bookRepo) ListSimilar(ctx context.Context, excludeID int64, prefix string, limit int) ([]model.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := r.s.filter(func(b model.Book) bool {
		if b.ID == excludeID {
			return false
		}
		for _, name := range r.s.categoryNames(b.ID) {
			if strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
				return true
			}
		}
		return false
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *bookRepo) Search(ctx context.Context, f model.SearchRequest) ([]model.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.s.filter(func(b model.Book) bool {
		if f.Query != "" && !containsFold(b.Title, f.Query) && !containsFold(b.Author, f.Query) && !containsFold(b.Summary, f.Query) {
			return false
		}
		if f.Author != "" && !containsFold(b.Author, f.Author) {
			return false
		}
		if f.Category != "" {
			for _, name := range r.s.categoryNames(b.ID) {
				if containsFold(name, f.Category) {
					return true
				}
			}
			return false
		}
		return true
	}), nil
}

func (r *bookRepo) DistinctAuthors(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	seen := map[string]bool{}
	authors := []string{}
	for _, b := range r.s.books {
		if !seen[b.Author] {
			seen[b.Author] = true
			authors = append(authors, b.Author)
		}
	}
	sort.Strings(authors)
	return authors, nil
}

func (r *bookRepo) Create(ctx context.Context, book *model.Book, categoryIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, b := range r.s.books {
		if b.Slug == book.Slug {
			return model.ErrSlugTaken
		}
	}
	r.s.nextBook++
	book.ID = r.s.nextBook
	book.CreatedAt = time.Now()
	book.UpdatedAt = book.CreatedAt

	stored := *book
	stored.Categories = nil
	r.s.books = append(r.s.books, stored)
	r.s.links[book.ID] = append([]int64(nil), categoryIDs...)
	return nil
}

func (r *bookRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	_, err := r.GetBySlug(ctx, slug)
	if err == model.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *bookRepo) ListWithoutCover(ctx context.Context) ([]model.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.s.filter(func(b model.Book) bool { return !b.HasCover() }), nil
}

func (r *bookRepo) ListWithoutPDF(ctx context.Context) ([]model.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.s.filter(func(b model.Book) bool { return !b.HasPDF() }), nil
}

func (r *bookRepo) update(id int64, apply func(*model.Book)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for i := range r.s.books {
		if r.s.books[i].ID == id {
			apply(&r.s.books[i])
			r.s.books[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return model.ErrNotFound
}

func (r *bookRepo) UpdateCover(ctx context.Context, id int64, key string) error {
	return r.update(id, func(b *model.Book) { b.CoverImage = &key })
}

func (r *bookRepo) UpdatePDF(ctx context.Context, id int64, key string) error {
	return r.update(id, func(b *model.Book) { b.PDF = &key })
}

func (r *bookRepo) UpdatePDFURL(ctx context.Context, id int64, url string) error {
	return r.update(id, func(b *model.Book) { b.PDFURL = &url })
}

func (r *bookRepo) ReferencedCoverKeys(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	keys := []string{}
	for _, b := range r.s.books {
		if b.HasCover() {
			keys = append(keys, *b.CoverImage)
		}
	}
	return keys, r.s.Err
}

func (r *bookRepo) ReferencedPDFKeys(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	keys := []string{}
	for _, b := range r.s.books {
		if b.HasPDF() {
			keys = append(keys, *b.PDF)
		}
	}
	return keys, r.s.Err
}

// ============================================
// CategoryRepository
// ============================================

type categoryRepo struct{ s *Store }

func (r *categoryRepo) List(ctx context.Context) ([]category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := append([]category.Category(nil), r.s.categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, c := range r.s.categories {
		if c.Slug == slug {
			cp := c
			return &cp, nil
		}
	}
	return nil, category.ErrNotFound
}

func (r *categoryRepo) GetByIDs(ctx context.Context, ids []int64) ([]category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := []category.Category{}
	for _, c := range r.s.categories {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func (r *categoryRepo) EnsureBySlug(ctx context.Context, slug, name string) (*category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, c := range r.s.categories {
		if c.Slug == slug {
			cp := c
			return &cp, nil
		}
	}
	r.s.nextCat++
	c := category.Category{ID: r.s.nextCat, Name: name, Slug: slug}
	r.s.categories = append(r.s.categories, c)
	return &c, nil
}

func (r *categoryRepo) ListForBooks(ctx context.Context, bookIDs []int64) (map[int64][]category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	result := make(map[int64][]category.Category, len(bookIDs))
	for _, bookID := range bookIDs {
		for _, id := range r.s.links[bookID] {
			for _, c := range r.s.categories {
				if c.ID == id {
					result[bookID] = append(result[bookID], c)
				}
			}
		}
		cats := result[bookID]
		sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	}
	return result, nil
}

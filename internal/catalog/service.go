package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

// BookOperation is what the HTTP layer and the CLI need from the store.
type BookOperation interface {
	RegisterAuthor(context.Context, Author) (Author, error)
	AddBook(context.Context, Book) (Book, error)
	AddAuthorWithBooks(context.Context, Author, []Book) (Author, []Book, error)
	GetAuthor(context.Context, string) (Author, error)
	GetBook(context.Context, string) (Book, error)
	DeleteAuthor(context.Context, string) (int64, error)
	DeleteBook(context.Context, string) error
	SearchBooks(context.Context, string) (SearchResult, error)
}

type Catalog struct {
	db *gorm.DB
}

var _ BookOperation = (*Catalog)(nil)

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) RegisterAuthor(ctx context.Context, author Author) (Author, error) {
	if res := c.db.WithContext(ctx).Omit(clause.Associations).Create(&author); res.Error != nil {
		return Author{}, fmt.Errorf("create author: %w", res.Error)
	}
	return author, nil
}

// AddBook stores book under the author named by book.AuthorID. A missing
// author surfaces as the store's foreign key error.
func (c *Catalog) AddBook(ctx context.Context, book Book) (Book, error) {
	if book.AuthorID == "" && book.Author.ID != "" {
		book.AuthorID = book.Author.ID
	}
	if res := c.db.WithContext(ctx).Omit(clause.Associations).Create(&book); res.Error != nil {
		return Book{}, fmt.Errorf("create book: %w", res.Error)
	}
	return book, nil
}

// AddAuthorWithBooks creates the author and all of its books in one
// transaction.
func (c *Catalog) AddAuthorWithBooks(ctx context.Context, author Author, books []Book) (Author, []Book, error) {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if res := tx.Omit(clause.Associations).Create(&author); res.Error != nil {
			return res.Error
		}
		for i := range books {
			books[i].AuthorID = author.ID
			if res := tx.Omit(clause.Associations).Create(&books[i]); res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
	if err != nil {
		return Author{}, nil, fmt.Errorf("create author with books: %w", err)
	}
	return author, books, nil
}

func (c *Catalog) GetAuthor(ctx context.Context, id string) (Author, error) {
	var author Author
	if err := c.db.WithContext(ctx).First(&author, "id = ?", id).Error; err != nil {
		return Author{}, notFound(err, "author")
	}
	return author, nil
}

func (c *Catalog) GetBook(ctx context.Context, id string) (Book, error) {
	var book Book
	if err := c.db.WithContext(ctx).Joins("Author").First(&book, "books.id = ?", id).Error; err != nil {
		return Book{}, notFound(err, "book")
	}
	return book, nil
}

// DeleteAuthor removes the author and every book that references it,
// returning how many books went with it.
func (c *Catalog) DeleteAuthor(ctx context.Context, id string) (int64, error) {
	var removed int64
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author Author
		if err := tx.First(&author, "id = ?", id).Error; err != nil {
			return err
		}
		// the FK cascades too; deleting explicitly keeps the count and
		// holds when foreign keys are not enforced (sqlite without the pragma)
		res := tx.Where("author_id = ?", id).Delete(&Book{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return tx.Delete(&author).Error
	})
	if err != nil {
		return 0, notFound(err, "delete author")
	}
	return removed, nil
}

func (c *Catalog) DeleteBook(ctx context.Context, id string) error {
	res := c.db.WithContext(ctx).Delete(&Book{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete book %s: %w", id, ErrNotFound)
	}
	return nil
}

func (c *Catalog) CountAuthors(ctx context.Context) (int64, error) {
	var n int64
	if err := c.db.WithContext(ctx).Model(&Author{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count authors: %w", err)
	}
	return n, nil
}

func (c *Catalog) CountBooks(ctx context.Context) (int64, error) {
	var n int64
	if err := c.db.WithContext(ctx).Model(&Book{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

package cadmus

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var booksBucket = []byte("books")

// BookInfo is the indexed metadata for one document in the library.
type BookInfo struct {
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	Pages       int       `json:"pages"`
	CurrentPage int       `json:"currentPage"`
	Opened      time.Time `json:"opened,omitzero"`
}

// Library is the on-disk book index. It is opened by the host loop at
// startup, carried in the Context, and closed at shutdown; views reach it
// through the Context only for the duration of a call.
type Library struct {
	db *bolt.DB
}

// OpenLibrary opens (or creates) the index database at path.
func OpenLibrary(path string) (*Library, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("library: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(booksBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("library: init %s: %w", path, err)
	}
	return &Library{db: db}, nil
}

// Close releases the database.
func (l *Library) Close() error {
	return l.db.Close()
}

// Upsert stores or replaces the record for info.Path.
func (l *Library) Upsert(info BookInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("library: marshal %s: %w", info.Path, err)
	}
	err = l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(booksBucket).Put([]byte(info.Path), data)
	})
	if err != nil {
		return fmt.Errorf("library: put %s: %w", info.Path, err)
	}
	return nil
}

// ByPath returns the record for a document path, or ok=false when the path
// has never been indexed.
func (l *Library) ByPath(path string) (info BookInfo, ok bool, err error) {
	err = l.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(booksBucket).Get([]byte(path))
		if data == nil {
			return nil
		}
		ok = true
		return json.Unmarshal(data, &info)
	})
	if err != nil {
		return BookInfo{}, false, fmt.Errorf("library: get %s: %w", path, err)
	}
	return info, ok, nil
}

// All returns every indexed book in path order.
func (l *Library) All() ([]BookInfo, error) {
	var books []BookInfo
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(booksBucket).ForEach(func(_, data []byte) error {
			var info BookInfo
			if err := json.Unmarshal(data, &info); err != nil {
				return err
			}
			books = append(books, info)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("library: scan: %w", err)
	}
	return books, nil
}

// MarkOpened records that the document was opened now at the given page,
// creating the record if needed.
func (l *Library) MarkOpened(path string, page int) error {
	info, ok, err := l.ByPath(path)
	if err != nil {
		return err
	}
	if !ok {
		info = BookInfo{Path: path, Title: path}
	}
	info.CurrentPage = page
	info.Opened = time.Now().UTC()
	return l.Upsert(info)
}

// Remove deletes the record for a document path. Removing an unindexed path
// is a no-op.
func (l *Library) Remove(path string) error {
	err := l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(booksBucket).Delete([]byte(path))
	})
	if err != nil {
		return fmt.Errorf("library: delete %s: %w", path, err)
	}
	return nil
}

// Package store connects to the data store and manages shoes, sessions,
// attributions, and imported legacy entries.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/demilade/stride/internal/models"
	"github.com/demilade/stride/internal/timeutil"
)

const (
	shoeBucket        = "shoes"
	sessionBucket     = "sessions"
	attributionBucket = "attributions"
	legacyBucket      = "legacy_entries"
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	// Create the necessary buckets for storing data if they do not exist
	// already
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{
			shoeBucket,
			sessionBucket,
			attributionBucket,
			legacyBucket,
		} {
			_, err = tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, ErrRepository.Wrap(err)
	}

	return &Client{db}, nil
}

// openDB creates or opens a database and locks it.
func openDB(dbPath string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		dbPath,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errStrideRunning
		}

		return nil, ErrRepository.Wrap(err)
	}

	return db, nil
}

func (c *Client) SaveShoe(shoe *models.Shoe) error {
	value, err := json.Marshal(shoe)
	if err != nil {
		return ErrRepository.Wrap(err)
	}

	err = c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(shoeBucket)).Put([]byte(shoe.ID), value)
	})
	if err != nil {
		return ErrRepository.Wrap(err)
	}

	return nil
}

func (c *Client) GetShoe(id string) (*models.Shoe, error) {
	var shoe models.Shoe

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(shoeBucket)).Get([]byte(id))
		if len(b) == 0 {
			return ErrShoeNotFound.Fmt(id)
		}

		return json.Unmarshal(b, &shoe)
	})
	if err != nil {
		if errors.Is(err, ErrShoeNotFound) {
			return nil, err
		}

		return nil, ErrRepository.Wrap(err)
	}

	return &shoe, nil
}

func (c *Client) ShoeByName(name string) (*models.Shoe, error) {
	shoes, err := c.ListShoes()
	if err != nil {
		return nil, err
	}

	for i := range shoes {
		if shoes[i].Name == name {
			return &shoes[i], nil
		}
	}

	return nil, ErrShoeNotFound.Fmt(name)
}

func (c *Client) ListShoes() ([]models.Shoe, error) {
	var shoes []models.Shoe

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(shoeBucket)).ForEach(func(_, v []byte) error {
			var shoe models.Shoe

			err := json.Unmarshal(v, &shoe)
			if err != nil {
				return err
			}

			shoes = append(shoes, shoe)

			return nil
		})
	})
	if err != nil {
		return nil, ErrRepository.Wrap(err)
	}

	return shoes, nil
}

func (c *Client) DefaultShoe() (*models.Shoe, error) {
	shoes, err := c.ListShoes()
	if err != nil {
		return nil, err
	}

	for i := range shoes {
		if shoes[i].Default && !shoes[i].Archived {
			return &shoes[i], nil
		}
	}

	return nil, nil
}

func sessionKey(sess *models.Session) []byte {
	return timeutil.ToKey(sess.StartTime)
}

func (c *Client) SaveSession(sess *models.Session) error {
	return c.SaveSessions([]*models.Session{sess})
}

func (c *Client) SaveSessions(sessions []*models.Session) error {
	err := c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))

		for _, sess := range sessions {
			value, err := json.Marshal(sess)
			if err != nil {
				return err
			}

			err = b.Put(sessionKey(sess), value)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return ErrRepository.Wrap(err)
	}

	return nil
}

func (c *Client) ActiveSessions() ([]models.Session, error) {
	var sessions []models.Session

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).
			ForEach(func(_, v []byte) error {
				var sess models.Session

				err := json.Unmarshal(v, &sess)
				if err != nil {
					return err
				}

				if sess.Active() {
					sessions = append(sessions, sess)
				}

				return nil
			})
	})
	if err != nil {
		return nil, ErrRepository.Wrap(err)
	}

	return sessions, nil
}

func (c *Client) SessionsFor(shoeID string) ([]models.Session, error) {
	var sessions []models.Session

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).
			ForEach(func(_, v []byte) error {
				var sess models.Session

				err := json.Unmarshal(v, &sess)
				if err != nil {
					return err
				}

				if sess.ShoeID == shoeID {
					sessions = append(sessions, sess)
				}

				return nil
			})
	})
	if err != nil {
		return nil, ErrRepository.Wrap(err)
	}

	return sessions, nil
}

func (c *Client) SessionsIn(
	startTime, endTime time.Time,
) ([]models.Session, error) {
	var sessions []models.Session

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(sessionBucket)).Cursor()

		min := timeutil.ToKey(startTime)
		max := timeutil.ToKey(endTime)

		for k, v := cur.Seek(min); k != nil && bytes.Compare(k, max) <= 0; k, v = cur.Next() {
			var sess models.Session

			err := json.Unmarshal(v, &sess)
			if err != nil {
				return err
			}

			sessions = append(sessions, sess)
		}

		return nil
	})
	if err != nil {
		return nil, ErrRepository.Wrap(err)
	}

	return sessions, nil
}

func (c *Client) PutAttribution(a *models.HourAttribution) error {
	return c.PutAttributions([]models.HourAttribution{*a})
}

func (c *Client) PutAttributions(attrs []models.HourAttribution) error {
	err := c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(attributionBucket))

		for i := range attrs {
			value, err := json.Marshal(&attrs[i])
			if err != nil {
				return err
			}

			err = b.Put(attrs[i].Bucket.Key(), value)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return ErrRepository.Wrap(err)
	}

	return nil
}

func (c *Client) GetAttribution(
	bucket timeutil.HourBucket,
) (*models.HourAttribution, error) {
	var attr *models.HourAttribution

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(attributionBucket)).Get(bucket.Key())
		if len(b) == 0 {
			return nil
		}

		attr = &models.HourAttribution{}

		return json.Unmarshal(b, attr)
	})
	if err != nil {
		return nil, ErrRepository.Wrap(err)
	}

	return attr, nil
}

func (c *Client) DeleteAttribution(bucket timeutil.HourBucket) error {
	err := c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(attributionBucket)).Delete(bucket.Key())
	})
	if err != nil {
		return ErrRepository.Wrap(err)
	}

	return nil
}

func (c *Client) AttributionsFor(
	shoeID string,
) ([]models.HourAttribution, error) {
	var attrs []models.HourAttribution

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(attributionBucket)).
			ForEach(func(_, v []byte) error {
				var a models.HourAttribution

				err := json.Unmarshal(v, &a)
				if err != nil {
					return err
				}

				if a.ShoeID == shoeID {
					attrs = append(attrs, a)
				}

				return nil
			})
	})
	if err != nil {
		return nil, ErrRepository.Wrap(err)
	}

	return attrs, nil
}

func (c *Client) SaveLegacyEntry(entry *models.LegacyEntry) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return ErrRepository.Wrap(err)
	}

	err = c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(legacyBucket)).Put([]byte(entry.ID), value)
	})
	if err != nil {
		return ErrRepository.Wrap(err)
	}

	return nil
}

func (c *Client) LegacyEntriesFor(
	shoeID string,
) ([]models.LegacyEntry, error) {
	var entries []models.LegacyEntry

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(legacyBucket)).
			ForEach(func(_, v []byte) error {
				var e models.LegacyEntry

				err := json.Unmarshal(v, &e)
				if err != nil {
					return err
				}

				if e.ShoeID == shoeID {
					entries = append(entries, e)
				}

				return nil
			})
	})
	if err != nil {
		return nil, ErrRepository.Wrap(err)
	}

	return entries, nil
}

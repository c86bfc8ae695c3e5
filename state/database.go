// Copyright 2026 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package state

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// database is the key-value backend the state record is persisted in.
type database struct {
	db *leveldb.DB
}

func openDatabase(path string) (*database, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		OpenFilesCacheCapacity: 16,
		BlockCacheCapacity:     1 * opt.MiB,
		WriteBuffer:            1 * opt.MiB,
	})
	if err != nil {
		return nil, err
	}
	return &database{db: db}, nil
}

func openMemoryDatabase() (*database, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &database{db: db}, nil
}

// get returns the value stored under key, or nil if there is none.
func (d *database) get(key []byte) ([]byte, error) {
	dat, err := d.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	return dat, err
}

func (d *database) put(key []byte, value []byte) error {
	return d.db.Put(key, value, &opt.WriteOptions{Sync: true})
}

func (d *database) close() error {
	return d.db.Close()
}

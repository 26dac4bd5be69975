// ota.go - part of UartSpy

// Copyright (C) 2026 the UartSpy authors

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

const (
	updateDefaultPort = 8266
	updateKeyHeader   = "X-Update-Key"
)

// updater is serviced once per device-loop tick. It returns errRestart
// when an update attempt has concluded and the device must restart to
// pick the new image up (or to recover from a half-applied one).
type updater interface {
	Service() error
}

// updateService accepts firmware images over authenticated HTTP and
// stages them for the next restart. One update per boot: any concluded
// attempt, success or failure, asks for a restart.
type updateService struct {
	port    int
	keyHash []byte // bcrypt hash from the credentials record
	destDir string

	server  *http.Server
	results chan error
}

func newUpdateService(port int, keyHash []byte, destDir string) *updateService {
	if port == 0 {
		port = updateDefaultPort
	}
	return &updateService{
		port:    port,
		keyHash: keyHash,
		destDir: destDir,
		results: make(chan error, 1),
	}
}

// listen starts the HTTP listener in the background. The route table
// is deliberately tiny: one authenticated POST.
func (u *updateService) listen() {
	router := mux.NewRouter()
	router.HandleFunc("/update", u.handleUpdate).Methods(http.MethodPost)
	u.server = &http.Server{
		Addr:              ":" + strconv.Itoa(u.port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := u.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("ERROR: update listener stopped: %v\n", err)
		}
	}()
	fmt.Printf("INFO: update service listening on port %d\n", u.port)
}

func (u *updateService) handleUpdate(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get(updateKeyHeader)
	if bcrypt.CompareHashAndPassword(u.keyHash, []byte(key)) != nil {
		http.Error(w, "bad update key", http.StatusUnauthorized)
		return
	}
	staged := filepath.Join(u.destDir, "uartspy-update-"+uuid.New().String())
	err := u.stage(staged, r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	} else {
		fmt.Fprintf(w, "staged %s, restarting\n", filepath.Base(staged))
	}
	// Either way the attempt has concluded; hand the verdict to the
	// device loop without blocking the handler.
	select {
	case u.results <- err:
	default:
	}
}

func (u *updateService) stage(path string, body io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("staging update: %w", err)
	}
	if _, err = io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("writing update image: %w", err)
	}
	if err = f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("closing update image: %w", err)
	}
	return nil
}

// Service reports a concluded update attempt, if any, as errRestart.
func (u *updateService) Service() error {
	select {
	case err := <-u.results:
		if err != nil {
			fmt.Printf("ERROR: update failed: %v\n", err)
		} else {
			fmt.Println("INFO: update staged")
		}
		return errRestart
	default:
		return nil
	}
}

func (u *updateService) Close() {
	if u.server != nil {
		u.server.Close()
	}
}

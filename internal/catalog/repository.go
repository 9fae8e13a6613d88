package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/automotive-catalog/internal/models"
	"github.com/ukydev/automotive-catalog/internal/store"
)

// Mode decides which store's collection is ground truth.
type Mode string

const (
	// ModeLocal keeps the full collection in the local store. A
	// configured remote service receives best-effort mirror writes.
	ModeLocal Mode = "local"
	// ModeRemote treats the remote collection as ground truth and
	// keeps the local store as a last-known-good snapshot.
	ModeRemote Mode = "remote"
)

// collectionKey is the fixed local-store key holding the serialized
// vehicle collection.
const collectionKey = "vehicles"

// ListResult is the outcome of a List call. Stale is set when the
// remote fetch failed and the last local snapshot was served instead;
// Err then carries the cause. Vehicles is never nil.
type ListResult struct {
	Vehicles []models.Vehicle
	Stale    bool
	Err      error
}

// SaveResult distinguishes full from partial success of a write.
// MirrorErr is set when the primary write succeeded but the mirror
// write to the secondary store failed; the record stays diverged
// until the next successful write resynchronizes it.
type SaveResult struct {
	Vehicle   models.Vehicle
	MirrorErr error
}

// Synced reports whether both stores hold the write.
func (r SaveResult) Synced() bool {
	return r.MirrorErr == nil
}

// Repository is the single source of truth for vehicle CRUD
// semantics, reconciling the local store and the remote document
// service. Nothing outside it touches either store directly.
type Repository struct {
	mode   Mode
	kv     store.KV
	remote store.DocumentService // nil disables mirroring in ModeLocal

	mu     sync.Mutex // guards kv access and id generation
	lastID int64
}

// NewRepository creates a repository. remote may be nil in ModeLocal;
// in ModeRemote it is required.
func NewRepository(mode Mode, kv store.KV, remote store.DocumentService) *Repository {
	return &Repository{mode: mode, kv: kv, remote: remote}
}

// List returns the full catalog. In remote mode a failed fetch falls
// back to the last snapshot instead of propagating; in local mode a
// first read initializes the store with an empty collection.
func (r *Repository) List(ctx context.Context) ListResult {
	if r.mode == ModeRemote {
		docs, err := r.remote.List(ctx)
		if err != nil {
			log.WithError(err).Warn("Remote list failed, serving local snapshot")
			return ListResult{
				Vehicles: r.readLocal(true),
				Stale:    true,
				Err:      &TransientError{Op: "list", Err: err},
			}
		}

		vehicles := make([]models.Vehicle, 0, len(docs))
		seen := make(map[string]bool, len(docs))
		for i := range docs {
			v := docs[i].ToVehicle()
			if seen[v.ID] {
				continue
			}
			seen[v.ID] = true
			vehicles = append(vehicles, v)
		}

		if err := r.writeLocal(vehicles); err != nil {
			log.WithError(err).Warn("Failed to persist catalog snapshot")
		}
		return ListResult{Vehicles: vehicles}
	}

	return ListResult{Vehicles: r.readLocal(false)}
}

// Add validates the payload, assigns identity and persists the
// vehicle. The primary write propagates errors; the mirror write is
// best-effort and only reported through SaveResult.MirrorErr.
func (r *Repository) Add(ctx context.Context, v models.Vehicle) (SaveResult, error) {
	if err := v.Validate(); err != nil {
		return SaveResult{}, err
	}
	v.CreatedAt = time.Now()

	if r.mode == ModeRemote {
		docID, err := r.remote.Create(ctx, store.DocFromVehicle(v))
		if err != nil {
			return SaveResult{}, &TransientError{Op: "create", Err: err}
		}
		v.ID = docID

		var mirrorErr error
		if err := r.replaceInSnapshot(v, true); err != nil {
			log.WithError(err).WithField("id", v.ID).Warn("Snapshot write failed after add")
			mirrorErr = err
		}
		return SaveResult{Vehicle: v, MirrorErr: mirrorErr}, nil
	}

	r.mu.Lock()
	v.ID = r.nextLocalID()
	vehicles := r.readLocalLocked(false)
	vehicles = append([]models.Vehicle{v}, vehicles...)
	err := r.writeLocalLocked(vehicles)
	r.mu.Unlock()
	if err != nil {
		return SaveResult{}, err
	}

	var mirrorErr error
	if r.remote != nil {
		if _, err := r.remote.Create(ctx, store.DocFromVehicle(v)); err != nil {
			log.WithError(err).WithField("vehicle_number", v.VehicleNumber).
				Warn("Mirror create failed")
			mirrorErr = &TransientError{Op: "create", Err: err}
		}
	}
	return SaveResult{Vehicle: v, MirrorErr: mirrorErr}, nil
}

// Update applies changes to an existing vehicle. Identity fields
// (id, vehicle number, creation time) are immutable. A missing target
// is ErrNotFound and leaves the collection unchanged; the repository
// never creates a record as a substitute for the update.
func (r *Repository) Update(ctx context.Context, v models.Vehicle) (SaveResult, error) {
	if err := v.Validate(); err != nil {
		return SaveResult{}, err
	}

	if r.mode == ModeRemote {
		return r.updateRemote(ctx, v)
	}

	r.mu.Lock()
	vehicles := r.readLocalLocked(false)
	idx := -1
	for i := range vehicles {
		if vehicles[i].ID == v.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return SaveResult{}, ErrNotFound
	}

	old := vehicles[idx]
	v.VehicleNumber = old.VehicleNumber
	v.CreatedAt = old.CreatedAt
	vehicles[idx] = v
	err := r.writeLocalLocked(vehicles)
	r.mu.Unlock()
	if err != nil {
		return SaveResult{}, err
	}

	// Only touch the mirror when the mirrored field actually changed.
	var mirrorErr error
	if r.remote != nil && old.YoutubeURL != v.YoutubeURL {
		mirrorErr = r.mirrorUpdate(ctx, v)
	}
	return SaveResult{Vehicle: v, MirrorErr: mirrorErr}, nil
}

func (r *Repository) updateRemote(ctx context.Context, v models.Vehicle) (SaveResult, error) {
	existing, err := r.remote.FindByVehicleNumber(ctx, v.VehicleNumber)
	if err != nil {
		if errors.Is(err, store.ErrDocNotFound) {
			return SaveResult{}, ErrNotFound
		}
		return SaveResult{}, &TransientError{Op: "lookup", Err: err}
	}

	v.ID = existing.DocID
	v.VehicleNumber = existing.VehicleNumber
	v.CreatedAt = existing.CreatedAt
	if err := r.remote.Update(ctx, existing.DocID, store.DocFromVehicle(v)); err != nil {
		if errors.Is(err, store.ErrDocNotFound) {
			return SaveResult{}, ErrNotFound
		}
		return SaveResult{}, &TransientError{Op: "update", Err: err}
	}

	var mirrorErr error
	if err := r.replaceInSnapshot(v, false); err != nil {
		log.WithError(err).WithField("id", v.ID).Warn("Snapshot write failed after update")
		mirrorErr = err
	}
	return SaveResult{Vehicle: v, MirrorErr: mirrorErr}, nil
}

// mirrorUpdate resynchronizes the mirrored document for v. A mirror
// that went missing is recreated here; that is the divergence-healing
// write, not an update-as-create.
func (r *Repository) mirrorUpdate(ctx context.Context, v models.Vehicle) error {
	doc, err := r.remote.FindByVehicleNumber(ctx, v.VehicleNumber)
	if err != nil {
		if errors.Is(err, store.ErrDocNotFound) {
			if _, err := r.remote.Create(ctx, store.DocFromVehicle(v)); err != nil {
				log.WithError(err).WithField("vehicle_number", v.VehicleNumber).
					Warn("Mirror recreate failed")
				return &TransientError{Op: "create", Err: err}
			}
			return nil
		}
		log.WithError(err).WithField("vehicle_number", v.VehicleNumber).
			Warn("Mirror lookup failed")
		return &TransientError{Op: "lookup", Err: err}
	}

	if err := r.remote.Update(ctx, doc.DocID, store.DocFromVehicle(v)); err != nil {
		log.WithError(err).WithField("vehicle_number", v.VehicleNumber).
			Warn("Mirror update failed")
		return &TransientError{Op: "update", Err: err}
	}
	return nil
}

// Delete removes the vehicle with id from the authoritative store.
// The mirrored resource is deleted first, tolerating its absence; the
// primary delete proceeds even if the mirror delete failed. Deleting
// an unknown id is a no-op.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.mode == ModeRemote {
		if err := r.remote.Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrDocNotFound) {
				return nil
			}
			return &TransientError{Op: "delete", Err: err}
		}
		if err := r.removeFromSnapshot(id); err != nil {
			log.WithError(err).WithField("id", id).Warn("Snapshot write failed after delete")
		}
		return nil
	}

	r.mu.Lock()
	vehicles := r.readLocalLocked(false)
	idx := -1
	for i := range vehicles {
		if vehicles[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return nil
	}
	target := vehicles[idx]
	r.mu.Unlock()

	// Mirror goes first so a failed primary delete never strands an
	// unreachable mirror document.
	if r.remote != nil {
		if doc, err := r.remote.FindByVehicleNumber(ctx, target.VehicleNumber); err != nil {
			if !errors.Is(err, store.ErrDocNotFound) {
				log.WithError(err).WithField("vehicle_number", target.VehicleNumber).
					Warn("Mirror lookup failed during delete")
			}
		} else if err := r.remote.Delete(ctx, doc.DocID); err != nil && !errors.Is(err, store.ErrDocNotFound) {
			log.WithError(err).WithField("vehicle_number", target.VehicleNumber).
				Warn("Mirror delete failed")
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	vehicles = r.readLocalLocked(false)
	kept := vehicles[:0]
	for i := range vehicles {
		if vehicles[i].ID != id {
			kept = append(kept, vehicles[i])
		}
	}
	return r.writeLocalLocked(kept)
}

// GetByID looks a vehicle up by its canonical id, or by business key
// in remote mode. Absence is (nil, nil), never an error.
func (r *Repository) GetByID(ctx context.Context, key string) (*models.Vehicle, error) {
	if r.mode == ModeRemote {
		if n, err := strconv.ParseInt(key, 10, 64); err == nil {
			doc, err := r.remote.FindByVehicleNumber(ctx, n)
			if err != nil {
				if errors.Is(err, store.ErrDocNotFound) {
					return nil, nil
				}
				return nil, &TransientError{Op: "lookup", Err: err}
			}
			v := doc.ToVehicle()
			return &v, nil
		}
	}

	for _, v := range r.readLocal(r.mode == ModeRemote) {
		if v.ID == key {
			return &v, nil
		}
	}
	return nil, nil
}

// --- local collection plumbing ---

func (r *Repository) readLocal(snapshotOnly bool) []models.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readLocalLocked(snapshotOnly)
}

// readLocalLocked decodes the collection under the fixed key. A
// missing key returns an empty collection and, when the local store
// is authoritative, initializes it; corrupt data is treated as empty
// rather than crashing.
func (r *Repository) readLocalLocked(snapshotOnly bool) []models.Vehicle {
	raw, ok, err := r.kv.Get(collectionKey)
	if err != nil {
		log.WithError(err).Error("Local store read failed")
		return []models.Vehicle{}
	}
	if !ok {
		if !snapshotOnly {
			if err := r.writeLocalLocked([]models.Vehicle{}); err != nil {
				log.WithError(err).Warn("Failed to initialize local store")
			}
		}
		return []models.Vehicle{}
	}

	var vehicles []models.Vehicle
	if err := json.Unmarshal([]byte(raw), &vehicles); err != nil {
		log.WithError(err).Warn("Local store data corrupt, treating as empty")
		return []models.Vehicle{}
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	return vehicles
}

func (r *Repository) writeLocal(vehicles []models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeLocalLocked(vehicles)
}

func (r *Repository) writeLocalLocked(vehicles []models.Vehicle) error {
	raw, err := json.Marshal(vehicles)
	if err != nil {
		return err
	}
	return r.kv.Set(collectionKey, string(raw))
}

// replaceInSnapshot upserts v into the local snapshot. With prepend
// set a new record goes to the front (newest-first ordering).
func (r *Repository) replaceInSnapshot(v models.Vehicle, prepend bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	vehicles := r.readLocalLocked(true)
	for i := range vehicles {
		if vehicles[i].ID == v.ID {
			vehicles[i] = v
			return r.writeLocalLocked(vehicles)
		}
	}
	if prepend {
		vehicles = append([]models.Vehicle{v}, vehicles...)
	} else {
		vehicles = append(vehicles, v)
	}
	return r.writeLocalLocked(vehicles)
}

func (r *Repository) removeFromSnapshot(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	vehicles := r.readLocalLocked(true)
	kept := vehicles[:0]
	for i := range vehicles {
		if vehicles[i].ID != id {
			kept = append(kept, vehicles[i])
		}
	}
	return r.writeLocalLocked(kept)
}

// nextLocalID generates a millisecond-timestamp id, bumped when two
// adds land in the same millisecond. Callers hold r.mu.
func (r *Repository) nextLocalID() string {
	id := time.Now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return strconv.FormatInt(id, 10)
}

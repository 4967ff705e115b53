package repo

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

// The repository functions themselves need a live mongod and are covered by
// the connectivity checker (cmd/mongocheck). These tests pin down the parts
// that hold without a server: nil-handle safety and error classification.

func TestStore_NilReceiverSafety(t *testing.T) {
	var st *Store

	if st.Ready() {
		t.Fatalf("nil store must not report ready")
	}
	if err := st.Ping(context.Background()); err == nil {
		t.Fatalf("nil store ping must fail")
	}
	if err := st.Close(context.Background()); err != nil {
		t.Fatalf("nil store close must be a no-op, got %v", err)
	}
	if err := st.EnsureIndexes(context.Background()); err == nil {
		t.Fatalf("nil store index creation must fail")
	}
}

func TestStore_EmptyHandleNotReady(t *testing.T) {
	st := &Store{}
	if st.Ready() {
		t.Fatalf("store without a client must not report ready")
	}
}

func TestConnect_EmptyURI(t *testing.T) {
	if _, err := Connect(context.Background(), "", "helpdesk"); err == nil {
		t.Fatalf("empty URI must be rejected before dialing")
	}
}

func TestErrNotFound_AliasesDriverSentinel(t *testing.T) {
	// Service-layer errors.Is checks depend on this identity.
	if !errors.Is(ErrNotFound, mongo.ErrNoDocuments) {
		t.Fatalf("ErrNotFound must alias mongo.ErrNoDocuments")
	}
}

func TestIsDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	if !IsDuplicateKey(dup) {
		t.Fatalf("E11000 must classify as duplicate key")
	}
	if IsDuplicateKey(errors.New("boom")) {
		t.Fatalf("arbitrary errors must not classify as duplicate key")
	}
	if IsDuplicateKey(nil) {
		t.Fatalf("nil must not classify as duplicate key")
	}
}

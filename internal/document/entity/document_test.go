package entity

import (
	"errors"
	"testing"
)

func TestDocumentStatus_Apply(t *testing.T) {
	tests := []struct {
		name    string
		from    DocumentStatus
		to      DocumentStatus
		wantErr bool
	}{
		{name: "approve", from: DocumentStatusSubmitted, to: DocumentStatusApproved},
		{name: "reject", from: DocumentStatusSubmitted, to: DocumentStatusRejected},
		{name: "back to submitted", from: DocumentStatusSubmitted, to: DocumentStatusSubmitted, wantErr: true},
		{name: "approved is final", from: DocumentStatusApproved, to: DocumentStatusRejected, wantErr: true},
		{name: "rejected is final", from: DocumentStatusRejected, to: DocumentStatusApproved, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Apply(tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) || got != tt.from {
					t.Fatalf("Apply() = %s, %v", got, err)
				}
				return
			}
			if err != nil || got != tt.to {
				t.Fatalf("Apply() = %s, %v", got, err)
			}
		})
	}
}

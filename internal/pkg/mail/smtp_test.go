package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
)

func TestSMTP_Send(t *testing.T) {
	// Arrange
	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, From: "no-reply@gnportal.lk"})
	if err != nil {
		t.Fatalf("NewSMTP() error = %v", err)
	}

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	// Act
	err = s.Send(context.Background(), Message{
		To:      []string{"nimal@example.lk"},
		Subject: "Your login code",
		Body:    "Code: 482913\nValid for 10 minutes.",
	})

	// Assert
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotAddr != "localhost:1025" || gotFrom != "no-reply@gnportal.lk" || len(gotTo) != 1 {
		t.Fatalf("unexpected envelope: %s %s %v", gotAddr, gotFrom, gotTo)
	}
	body := string(gotMsg)
	if !strings.Contains(body, "Subject: Your login code\r\n") || !strings.HasSuffix(body, "Code: 482913\r\nValid for 10 minutes.") {
		t.Fatalf("unexpected message:\n%s", body)
	}
}

func TestCompose_Rejects(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want error
	}{
		{name: "no recipients", msg: Message{From: "a@b.c"}, want: ErrSMTPNoRecipients},
		{name: "no sender", msg: Message{To: []string{"x@y.z"}}, want: ErrSMTPNoSender},
		{name: "header injection", msg: Message{From: "a@b.c", To: []string{"x@y.z"}, Subject: "hi\r\nBcc: evil@x"}, want: ErrSMTPHeaderInjection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := compose(tt.msg); !errors.Is(err, tt.want) {
				t.Fatalf("compose() error = %v, want %v", err, tt.want)
			}
		})
	}
}

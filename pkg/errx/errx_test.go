package errx

import (
	"errors"
	"net/http"
	"testing"
)

func TestWrap_PreservesCodeAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := Wrap(cause, "store unavailable", TypeInternal)

	if wrapped.Message != "store unavailable" {
		t.Fatalf("unexpected message %q", wrapped.Message)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("wrapped error must keep the cause in its chain")
	}
	if wrapped.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", wrapped.HTTPStatus)
	}
}

func TestWrap_KeepsRegisteredCode(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "thing not found")

	inner := reg.New(code)
	outer := Wrap(inner, "lookup failed", TypeInternal)

	if outer.Code != "TEST_NOT_FOUND" {
		t.Fatalf("expected inner code to survive wrapping, got %q", outer.Code)
	}
	if outer.Type != TypeInternal {
		t.Fatalf("expected outer type, got %q", outer.Type)
	}
}

func TestWrap_NilErr(t *testing.T) {
	if Wrap(nil, "ignored", TypeInternal) != nil {
		t.Fatal("wrapping nil must return nil")
	}
}

func TestIsType(t *testing.T) {
	err := Validation("bad input")

	if !IsType(err, TypeValidation) {
		t.Fatal("expected validation type")
	}
	if IsType(err, TypeNotFound) {
		t.Fatal("unexpected not-found type")
	}
	if IsType(errors.New("plain"), TypeInternal) {
		t.Fatal("plain errors have no type")
	}
}

func TestRegistry_PrefixesCodes(t *testing.T) {
	reg := NewRegistry("OTP")
	code := reg.Register("SEND_FAILED", TypeExternal, http.StatusBadGateway, "Failed to send OTP")

	err := reg.New(code)
	if err.Code != "OTP_SEND_FAILED" {
		t.Fatalf("unexpected code %q", err.Code)
	}
	if err.Error() != "[OTP_SEND_FAILED] Failed to send OTP" {
		t.Fatalf("unexpected rendering %q", err.Error())
	}

	if _, ok := reg.Get("SEND_FAILED"); !ok {
		t.Fatal("registered code must be retrievable")
	}
}

func TestWithDetail(t *testing.T) {
	err := NotFound("missing").WithDetail("id", "abc")

	if err.Details["id"] != "abc" {
		t.Fatalf("unexpected details %v", err.Details)
	}
}

package amqp

import "testing"

func TestTransactionEventRoundTrip(t *testing.T) {
	event := NewTransactionEvent("5f1c9c2e", "user-1", EventRecorded)

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := TransactionEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.TransactionID != "5f1c9c2e" || got.UserID != "user-1" || got.Kind != EventRecorded {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestTransactionEventFromJSONInvalid(t *testing.T) {
	if _, err := TransactionEventFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
}

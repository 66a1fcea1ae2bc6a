package ipc

import (
	"bytes"
	"encoding/binary"
	"net"
	"strings"
	"testing"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	env, err := NewEnvelope(TypeMove, MoveCommand{UnitID: 7, Direction: "up_left"})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteEnvelope(&buf, env); err != nil {
		t.Fatalf("WriteEnvelope: %v", err)
	}
	if got := binary.LittleEndian.Uint32(buf.Bytes()[:4]); int(got) != buf.Len()-4 {
		t.Errorf("length prefix = %d, want %d", got, buf.Len()-4)
	}

	got, err := ReadEnvelope(&buf)
	if err != nil {
		t.Fatalf("ReadEnvelope: %v", err)
	}
	if got.Type != TypeMove {
		t.Errorf("type = %q, want %q", got.Type, TypeMove)
	}
	var cmd MoveCommand
	if err := got.Decode(&cmd); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cmd.UnitID != 7 || cmd.Direction != "up_left" {
		t.Errorf("decoded %+v, want unit 7 up_left", cmd)
	}
}

func TestReadEnvelopeRejectsBadLength(t *testing.T) {
	for _, length := range []uint32{0, maxFrame + 1} {
		var buf bytes.Buffer
		binary.Write(&buf, binary.LittleEndian, length)
		_, err := ReadEnvelope(&buf)
		if err == nil || !strings.Contains(err.Error(), "invalid message length") {
			t.Errorf("length %d: err = %v, want invalid message length", length, err)
		}
	}
}

func TestReadEnvelopeTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(50))
	buf.WriteString(`{"type":"turn"`)
	if _, err := ReadEnvelope(&buf); err == nil {
		t.Error("expected error for truncated payload")
	}
}

func TestConnectionDispatchesHandlers(t *testing.T) {
	server, client := net.Pipe()
	conn := NewSocketConnection(server)

	conn.RegisterHandler(TypeHello, func(env Envelope) (*Envelope, error) {
		var hello HelloMessage
		if err := env.Decode(&hello); err != nil {
			return nil, err
		}
		reply, err := NewEnvelope(TypeAck, AckMessage{Status: "ok:" + hello.Team})
		return &reply, err
	})

	done := make(chan struct{})
	go func() {
		conn.ReadLoop()
		close(done)
	}()

	// Unknown types are skipped without a reply.
	unknown, _ := NewEnvelope("mystery", struct{}{})
	if err := WriteEnvelope(client, unknown); err != nil {
		t.Fatalf("write unknown: %v", err)
	}

	hello, _ := NewEnvelope(TypeHello, HelloMessage{Team: "red", MapWidth: 4, MapHeight: 4})
	if err := WriteEnvelope(client, hello); err != nil {
		t.Fatalf("write hello: %v", err)
	}

	reply, err := ReadEnvelope(client)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	var ack AckMessage
	if err := reply.Decode(&ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if reply.Type != TypeAck || ack.Status != "ok:red" {
		t.Errorf("reply = %s %+v, want ack ok:red", reply.Type, ack)
	}

	client.Close()
	<-done
}

func TestConnectionSurvivesHandlerPanic(t *testing.T) {
	server, client := net.Pipe()
	conn := NewSocketConnection(server)

	conn.RegisterHandler(TypeTurn, func(Envelope) (*Envelope, error) {
		panic("grid index out of range")
	})
	conn.RegisterHandler(TypeHello, func(Envelope) (*Envelope, error) {
		reply, err := NewEnvelope(TypeAck, AckMessage{Status: "ok"})
		return &reply, err
	})

	done := make(chan struct{})
	go func() {
		conn.ReadLoop()
		close(done)
	}()

	turn, _ := NewEnvelope(TypeTurn, struct{}{})
	if err := WriteEnvelope(client, turn); err != nil {
		t.Fatalf("write turn: %v", err)
	}
	hello, _ := NewEnvelope(TypeHello, HelloMessage{Team: "red", MapWidth: 4, MapHeight: 4})
	if err := WriteEnvelope(client, hello); err != nil {
		t.Fatalf("write hello: %v", err)
	}

	reply, err := ReadEnvelope(client)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply.Type != TypeAck {
		t.Errorf("reply type = %q, want %q", reply.Type, TypeAck)
	}

	client.Close()
	<-done
}

package websocket

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// frame represents a WebSocket frame and its metadata.
type frame struct {
	isFin   bool
	opCode  byte
	length  uint64
	payload []byte
}

const (
	opCodeText  byte = 1
	opCodeClose byte = 8
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// connection binds a hijacked stream to one player identity. Frame writes
// are serialized; broadcasts and direct responses share the same writer.
type connection struct {
	playerID string
	bufrw    *bufio.ReadWriter

	writeMu sync.Mutex
}

func (that *connection) sendMessage(action string, payload any) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	responseBytes, err := json.Marshal(Message{
		Action:  action,
		Payload: payloadBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	return writeFrame(that.bufrw, frame{
		isFin:   true,
		opCode:  opCodeText,
		length:  uint64(len(responseBytes)),
		payload: responseBytes,
	})
}

func writeFrame(bufrw *bufio.ReadWriter, frameData frame) error {
	buf := make([]byte, 2, 2+len(frameData.payload))
	buf[0] |= frameData.opCode

	if frameData.isFin {
		buf[0] |= 0x80
	}

	switch {
	case frameData.length < 126:
		buf[1] |= byte(frameData.length)
	case frameData.length < 1<<16:
		buf[1] |= 126
		size := make([]byte, 2)
		binary.BigEndian.PutUint16(size, uint16(frameData.length))
		buf = append(buf, size...)
	default:
		buf[1] |= 127
		size := make([]byte, 8)
		binary.BigEndian.PutUint64(size, frameData.length)
		buf = append(buf, size...)
	}

	buf = append(buf, frameData.payload...)

	if _, err := bufrw.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	if err := bufrw.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}

	return nil
}

var errConnectionClosed = fmt.Errorf("connection closed by peer")

func readRequest(bufrw *bufio.ReadWriter) ([]byte, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(bufrw, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	opCode := header[0] & 0x0f
	maskBit := header[1] >> 7
	payloadLen := header[1] & 0x7f

	size, err := readPayloadLength(bufrw, payloadLen)
	if err != nil {
		return nil, err
	}

	mask, err := readMask(bufrw, maskBit)
	if err != nil {
		return nil, err
	}

	payload, err := readData(bufrw, size, mask)
	if err != nil {
		return nil, err
	}

	if opCode == opCodeClose {
		return nil, errConnectionClosed
	}

	return payload, nil
}

func readPayloadLength(bufrw *bufio.ReadWriter, payloadLen byte) (uint64, error) {
	if payloadLen < 126 {
		return uint64(payloadLen), nil
	}

	if payloadLen == 126 {
		length := make([]byte, 2)
		if _, err := io.ReadFull(bufrw, length); err != nil {
			return 0, fmt.Errorf("failed to read payload length: %w", err)
		}
		return uint64(binary.BigEndian.Uint16(length)), nil
	}

	length := make([]byte, 8)
	if _, err := io.ReadFull(bufrw, length); err != nil {
		return 0, fmt.Errorf("failed to read payload length: %w", err)
	}

	return binary.BigEndian.Uint64(length), nil
}

func readMask(bufrw *bufio.ReadWriter, maskBit byte) ([]byte, error) {
	if maskBit == 0 {
		return nil, nil
	}

	mask := make([]byte, 4)
	if _, err := io.ReadFull(bufrw, mask); err != nil {
		return nil, fmt.Errorf("failed to read mask: %w", err)
	}

	return mask, nil
}

func readData(bufrw *bufio.ReadWriter, size uint64, mask []byte) ([]byte, error) {
	payload := make([]byte, size)
	if _, err := io.ReadFull(bufrw, payload); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	if mask != nil {
		for i := range payload {
			payload[i] ^= mask[i%4]
		}
	}

	return payload, nil
}

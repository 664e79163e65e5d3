package paymentservice

import (
	"fmt"
	"strings"
)

// pixPayload renders a static PIX "copia e cola" string: EMV tag-length-value
// fields closed by a CRC16 over everything before it.
func pixPayload(key, description, amount, merchant, city, txid string) string {
	account := tlv("00", "BR.GOV.BCB.PIX") + tlv("01", key)
	if description != "" {
		account += tlv("02", truncate(description, 40))
	}
	if txid == "" {
		txid = "***"
	}

	var b strings.Builder
	b.WriteString(tlv("00", "01"))
	b.WriteString(tlv("26", account))
	b.WriteString(tlv("52", "0000"))
	b.WriteString(tlv("53", "986"))
	b.WriteString(tlv("54", amount))
	b.WriteString(tlv("58", "BR"))
	b.WriteString(tlv("59", truncate(merchant, 25)))
	b.WriteString(tlv("60", truncate(city, 15)))
	b.WriteString(tlv("62", tlv("05", truncate(sanitizeTxID(txid), 25))))
	b.WriteString("6304")

	payload := b.String()
	return payload + fmt.Sprintf("%04X", crc16CCITT([]byte(payload)))
}

func tlv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// sanitizeTxID keeps the alphanumerics PIX accepts in a txid.
func sanitizeTxID(s string) string {
	if s == "***" {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "***"
	}
	return b.String()
}

// crc16CCITT is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF).
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, c := range data {
		crc ^= uint16(c) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

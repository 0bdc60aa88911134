package session

import "strings"

// Key is one keypad input. Digits are the runes '0' to '9'.
type Key rune

const (
	KeySign      Key = '-'
	KeyDecimal   Key = '.'
	KeyBackspace Key = '\b'
)

// DigitKey returns the key for digit d (0-9).
func DigitKey(d int) Key {
	return Key('0' + d)
}

// Input edits the answer buffer. The first backspace of an attempt marks
// it as corrected and starts the shake.
func (c *Controller) Input(k Key) []Effect {
	if c.st.Phase != PhasePlaying {
		return nil
	}
	buf := c.st.Answer
	full := len(buf) >= c.cfg.MaxAnswerLength

	switch {
	case k >= '0' && k <= '9':
		if !full {
			c.st.Answer = buf + string(rune(k))
		}
	case k == KeySign:
		if strings.HasPrefix(buf, "-") {
			c.st.Answer = buf[1:]
		} else if !full {
			c.st.Answer = "-" + buf
		}
	case k == KeyDecimal:
		if strings.Contains(buf, ".") {
			break
		}
		next := buf + "."
		if buf == "" || buf == "-" {
			next = buf + "0."
		}
		if len(next) <= c.cfg.MaxAnswerLength {
			c.st.Answer = next
		}
	case k == KeyBackspace:
		if buf != "" {
			c.st.Answer = buf[:len(buf)-1]
		}
		if !c.st.MadeMistake {
			c.st.MadeMistake = true
			c.st.Shaking = true
			return []Effect{c.arm(TimerShake, c.cfg.ShakeDuration)}
		}
	}
	return nil
}

package bot

import (
	"fmt"
	"time"
)

const dateLayout = "Mon Jan 02 2006"

func userMention(id string) string {
	return "<@" + id + ">"
}

func roleMention(id string) string {
	return "<@&" + id + ">"
}

// timestamp renders a client-localized time; style "D" is a long date, "R" relative.
func timestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

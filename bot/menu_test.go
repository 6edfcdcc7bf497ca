package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		data string
		want Command
	}{
		{"main_menu", CommandMainMenu},
		{"send_html", CommandSendHTML},
		{"support", CommandSupport},
		{"admin_stats", CommandAdminStats},
		{"admin_status", CommandAdminStatus},
		{"", CommandUnknown},
		{"drop_tables", CommandUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseCommand(tc.data), "payload %q", tc.data)
	}
}

func TestMenusCarryKnownPayloadsOnly(t *testing.T) {
	for _, row := range append(mainMenu().InlineKeyboard, adminMenu().InlineKeyboard...) {
		for _, button := range row {
			if assert.NotNil(t, button.CallbackData) {
				assert.NotEqual(t, CommandUnknown, ParseCommand(*button.CallbackData),
					"button %q has an unroutable payload", button.Text)
			}
		}
	}
}

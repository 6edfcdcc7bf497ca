package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Command is the closed set of inline-menu actions. Callback payloads parse
// into a Command and are dispatched with an explicit switch, so an unhandled
// action is a visible default case instead of a silent no-op.
type Command int

const (
	CommandUnknown Command = iota
	CommandMainMenu
	CommandSendHTML
	CommandSupport
	CommandAdminStats
	CommandAdminStatus
)

const (
	callbackMainMenu    = "main_menu"
	callbackSendHTML    = "send_html"
	callbackSupport     = "support"
	callbackAdminStats  = "admin_stats"
	callbackAdminStatus = "admin_status"
)

// ParseCommand maps a callback payload onto the command enumeration.
func ParseCommand(data string) Command {
	switch data {
	case callbackMainMenu:
		return CommandMainMenu
	case callbackSendHTML:
		return CommandSendHTML
	case callbackSupport:
		return CommandSupport
	case callbackAdminStats:
		return CommandAdminStats
	case callbackAdminStatus:
		return CommandAdminStatus
	default:
		return CommandUnknown
	}
}

func mainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Отправить HTML-код 📄", callbackSendHTML),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Поддержка 🌟", callbackSupport),
		),
	)
}

func adminMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Статистика пользователей", callbackAdminStats),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚀 Статус бота", callbackAdminStatus),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Главное меню", callbackMainMenu),
		),
	)
}

const supportText = "🌟 *Поддержка*\n\n" +
	"Если бот не работает или у вас есть вопросы, пишите: @makar2108 📩\n" +
	"⚠️ Telegram ограничивает размер скачиваемых файлов до 50 МБ.\n\n" +
	"Поддержите проект добровольным пожертвованием:\n" +
	"BEP-20 USDT: `0xc4b648A590A61F2F1d8b99f41248066533428471` 💸"

const welcomeText = "Добро пожаловать в бот для скачивания медиа! 📹\n\n" +
	"Отправьте ссылку на страницу или её HTML-код, и я попытаюсь найти и скачать фото или видео.\n" +
	"⚠️ Telegram ограничивает размер скачиваемых файлов до 50 МБ.\n\n" +
	"Выберите действие:"

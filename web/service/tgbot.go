package service

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"gift-gap/config"
	"gift-gap/database/model"
	"gift-gap/logger"
	"gift-gap/util/common"
	"gift-gap/web/global"
	"gift-gap/web/locale"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpproxy"
	"go.uber.org/atomic"
)

var (
	bot        *telego.Bot
	botHandler *th.BotHandler
	adminIds   []int64
	isRunning  = atomic.NewBool(false)
)

type Tgbot struct {
	participantService  ParticipantService
	registrationService RegistrationService
	lotteryService      LotteryService
	dispatchService     DispatchService
	serverService       ServerService
}

func (t *Tgbot) I18nBot(name string, params ...string) string {
	return locale.I18n(locale.Bot, name, params...)
}

func (t *Tgbot) Start(i18nFS embed.FS) error {
	err := locale.InitLocalizer(i18nFS)
	if err != nil {
		return err
	}

	tgBotToken := config.GetTgBotToken()
	if tgBotToken == "" {
		return common.NewError("telegram bot token is not set")
	}

	adminIds, err = config.GetTgBotAdminIds()
	if err != nil {
		logger.Warning("Failed to parse Telegram admin IDs:", err)
		return err
	}

	bot, err = t.NewBot(tgBotToken, config.GetTgBotProxy(), config.GetTgBotAPIServer())
	if err != nil {
		logger.Error("Failed to initialize Telegram bot API:", err)
		return err
	}

	err = bot.SetMyCommands(context.Background(), &telego.SetMyCommandsParams{
		Commands: []telego.BotCommand{
			{Command: "start", Description: t.I18nBot("commands.startDesc")},
			{Command: "send", Description: t.I18nBot("commands.sendDesc")},
			{Command: "cancel", Description: t.I18nBot("commands.cancelDesc")},
			{Command: "clear", Description: t.I18nBot("commands.clearDesc")},
			{Command: "help", Description: t.I18nBot("commands.helpDesc")},
		},
	})
	if err != nil {
		logger.Warning("Failed to set bot commands:", err)
	}

	if !isRunning.Load() {
		logger.Info("Telegram bot receiver started")
		go t.OnReceive()
		isRunning.Store(true)
	}

	return nil
}

func (t *Tgbot) NewBot(token string, proxyUrl string, apiServerUrl string) (*telego.Bot, error) {
	if proxyUrl == "" && apiServerUrl == "" {
		return telego.NewBot(token)
	}

	if proxyUrl != "" {
		if !strings.HasPrefix(proxyUrl, "socks5://") {
			logger.Warning("Invalid socks5 URL, using default")
			return telego.NewBot(token)
		}

		_, err := url.Parse(proxyUrl)
		if err != nil {
			logger.Warningf("Can't parse proxy URL, using default instance for tgbot: %v", err)
			return telego.NewBot(token)
		}

		return telego.NewBot(token, telego.WithFastHTTPClient(&fasthttp.Client{
			Dial: fasthttpproxy.FasthttpSocksDialer(proxyUrl),
		}))
	}

	if !strings.HasPrefix(apiServerUrl, "http") {
		logger.Warning("Invalid http(s) URL, using default")
		return telego.NewBot(token)
	}

	_, err := url.Parse(apiServerUrl)
	if err != nil {
		logger.Warningf("Can't parse API server URL, using default instance for tgbot: %v", err)
		return telego.NewBot(token)
	}

	return telego.NewBot(token, telego.WithAPIServer(apiServerUrl))
}

func (t *Tgbot) IsRunning() bool {
	return isRunning.Load()
}

func (t *Tgbot) Stop() {
	if botHandler != nil {
		botHandler.Stop()
	}
	logger.Info("Stop Telegram receiver ...")
	isRunning.Store(false)
	adminIds = nil
}

func (t *Tgbot) OnReceive() {
	params := telego.GetUpdatesParams{
		Timeout: 10,
	}

	updates, _ := bot.UpdatesViaLongPolling(context.Background(), &params)

	botHandler, _ = th.NewBotHandler(bot, updates)

	botHandler.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		t.answerCommand(&message, message.Chat.ID, IsAdmin(message.From.ID))
		return nil
	}, th.AnyCommand())

	botHandler.HandleCallbackQuery(func(ctx *th.Context, query telego.CallbackQuery) error {
		t.answerCallback(&query, IsAdmin(query.From.ID))
		return nil
	}, th.AnyCallbackQueryWithMessage())

	botHandler.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		t.answerInput(&message)
		return nil
	}, th.AnyMessage())

	botHandler.Start()
}

// IsAdmin reports whether the given Telegram id belongs to an organizer.
func IsAdmin(tgId int64) bool {
	for _, adminId := range adminIds {
		if adminId == tgId {
			return true
		}
	}
	return false
}

func (t *Tgbot) answerCommand(message *telego.Message, chatId int64, isAdmin bool) {
	command, _, commandArgs := tu.ParseCommand(message.Text)

	switch command {
	case "help":
		t.SendMsgToTgbot(chatId, t.I18nBot("commands.help"))
	case "id":
		t.SendMsgToTgbot(chatId, t.I18nBot("commands.getID", fmt.Sprintf("ID==%d", message.From.ID)))
	case "start":
		t.startRegistration(chatId, message.From.ID)
	case "send":
		t.submitDraft(chatId, message.From.ID, message.From.Username)
	case "cancel":
		if t.registrationService.Cancel(message.From.ID) {
			t.SendMsgToTgbot(chatId, t.I18nBot("register.canceled"))
		} else {
			t.SendMsgToTgbot(chatId, t.I18nBot("register.nothingToCancel"))
		}
	case "lottery":
		if !isAdmin {
			t.SendMsgToTgbot(chatId, t.I18nBot("commands.adminOnly"))
			return
		}
		t.runLottery(chatId, false, 0)
	case "list":
		if !isAdmin {
			t.SendMsgToTgbot(chatId, t.I18nBot("commands.adminOnly"))
			return
		}
		t.listParticipants(chatId)
	case "status":
		if !isAdmin {
			t.SendMsgToTgbot(chatId, t.I18nBot("commands.adminOnly"))
			return
		}
		t.sendStatus(chatId)
	case "clear":
		if isAdmin && len(commandArgs) > 0 && commandArgs[0] == "all" {
			keyboard := tu.InlineKeyboard(
				tu.InlineKeyboardRow(
					tu.InlineKeyboardButton(t.I18nBot("buttons.clearAll")).WithCallbackData("clear_all_c"),
					tu.InlineKeyboardButton(t.I18nBot("buttons.cancel")).WithCallbackData("cancel"),
				),
			)
			t.SendMsgToTgbot(chatId, t.I18nBot("clear.allConfirm"), keyboard)
			return
		}
		t.askClearOwnData(chatId, message.From.ID)
	default:
		t.SendMsgToTgbot(chatId, t.I18nBot("commands.unknown"))
	}
}

func (t *Tgbot) startRegistration(chatId int64, userId int64) {
	state, err := t.registrationService.Begin(userId)
	if err != nil {
		logger.Warning("begin registration failed:", err)
		t.SendMsgToTgbot(chatId, t.I18nBot("wentWrong"))
		return
	}

	if state == StateConfirmExisting {
		keyboard := tu.InlineKeyboard(
			tu.InlineKeyboardRow(
				tu.InlineKeyboardButton(t.I18nBot("buttons.restart")).WithCallbackData("register_restart"),
				tu.InlineKeyboardButton(t.I18nBot("buttons.keep")).WithCallbackData("register_keep"),
			),
		)
		t.SendMsgToTgbot(chatId, t.I18nBot("register.exists"), keyboard)
		return
	}
	t.SendMsgToTgbot(chatId, t.I18nBot("register.welcome"))
}

func (t *Tgbot) answerInput(message *telego.Message) {
	chatId := message.Chat.ID
	userId := message.From.ID

	if t.registrationService.State(userId) == StateIdle {
		return
	}

	state, err := t.registrationService.HandleText(userId, message.Text)
	if err != nil {
		switch {
		case errors.Is(err, ErrNameTooShort):
			t.SendMsgToTgbot(chatId, t.I18nBot("register.nameTooShort"))
		case errors.Is(err, ErrWishTooShort):
			t.SendMsgToTgbot(chatId, t.I18nBot("register.wishTooShort"))
		case errors.Is(err, ErrNoConversation), errors.Is(err, ErrUnexpectedInput):
		default:
			logger.Warning("handle registration input failed:", err)
			t.SendMsgToTgbot(chatId, t.I18nBot("wentWrong"))
		}
		return
	}

	switch state {
	case StateAwaitingWish:
		t.SendMsgToTgbot(chatId, t.I18nBot("register.askWish"))
	case StateAwaitingComment:
		keyboard := tu.InlineKeyboard(
			tu.InlineKeyboardRow(
				tu.InlineKeyboardButton(t.I18nBot("buttons.skip")).WithCallbackData("skip_comment"),
			),
		)
		t.SendMsgToTgbot(chatId, t.I18nBot("register.askComment"), keyboard)
	case StateReadyToSubmit:
		t.sendSummary(chatId, userId, 0)
	}
}

func (t *Tgbot) sendSummary(chatId int64, userId int64, messageId int) {
	draft, ok := t.registrationService.Draft(userId)
	if !ok {
		t.SendMsgToTgbot(chatId, t.I18nBot("register.incomplete"))
		return
	}

	comment := draft.Comment
	if comment == "" {
		comment = t.I18nBot("register.noComment")
	}
	msg := t.I18nBot("register.summary",
		"Name=="+html.EscapeString(draft.Name),
		"Wish=="+html.EscapeString(draft.Wish),
		"Comment=="+html.EscapeString(comment))

	if messageId > 0 {
		t.editMessageTgBot(chatId, messageId, msg)
		return
	}
	t.SendMsgToTgbot(chatId, msg)
}

func (t *Tgbot) submitDraft(chatId int64, userId int64, username string) {
	_, err := t.registrationService.Submit(userId, username)
	if err != nil {
		if errors.Is(err, ErrDraftIncomplete) {
			t.SendMsgToTgbot(chatId, t.I18nBot("register.incomplete"))
			return
		}
		logger.Warning("submit registration failed:", err)
		t.SendMsgToTgbot(chatId, t.I18nBot("wentWrong"))
		return
	}
	t.SendMsgToTgbot(chatId, t.I18nBot("register.submitted"))
}

func (t *Tgbot) runLottery(chatId int64, forceReset bool, messageId int) {
	pairs, err := t.lotteryService.Run(forceReset)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientParticipants):
			count, _ := t.participantService.Count()
			t.SendMsgToTgbot(chatId, t.I18nBot("lottery.notEnough", fmt.Sprintf("Count==%d", count)))
		case errors.Is(err, ErrAlreadyDrawn):
			keyboard := tu.InlineKeyboard(
				tu.InlineKeyboardRow(
					tu.InlineKeyboardButton(t.I18nBot("buttons.redraw")).WithCallbackData("relottery"),
					tu.InlineKeyboardButton(t.I18nBot("buttons.cancel")).WithCallbackData("cancel"),
				),
			)
			t.SendMsgToTgbot(chatId, t.I18nBot("lottery.alreadyDrawn"), keyboard)
		default:
			logger.Error("lottery run failed:", err)
			t.SendMsgToTgbot(chatId, t.I18nBot("wentWrong"))
		}
		return
	}

	ctx := context.Background()
	if ws := global.GetWebServer(); ws != nil {
		ctx = ws.GetCtx()
	}

	report, err := t.dispatchService.NotifyAll(ctx, pairs, forceReset, t.sendAssignment)
	if err != nil {
		logger.Error("dispatch failed:", err)
	}

	done := t.I18nBot("lottery.done",
		fmt.Sprintf("Count==%d", report.Attempted),
		fmt.Sprintf("Sent==%d", report.Succeeded))
	if messageId > 0 {
		t.editMessageTgBot(chatId, messageId, done)
	} else {
		t.SendMsgToTgbot(chatId, done)
	}

	if len(report.Failed) > 0 {
		t.SendMsgToTgbot(chatId, t.I18nBot("lottery.failedCount", fmt.Sprintf("Count==%d", len(report.Failed))))
	}
}

// sendAssignment is the dispatch SendFunc backed by the live bot.
func (t *Tgbot) sendAssignment(ctx context.Context, giverId int64, payload NotifyPayload) error {
	key := "lottery.result"
	if payload.Redraw {
		key = "lottery.redrawResult"
	}
	msg := t.I18nBot(key,
		"Name=="+html.EscapeString(payload.ReceiverName),
		"Wish=="+html.EscapeString(payload.Wish))
	if payload.Comment != "" {
		msg += t.I18nBot("lottery.resultComment", "Comment=="+html.EscapeString(payload.Comment))
	}

	params := telego.SendMessageParams{
		ChatID:    tu.ID(giverId),
		Text:      msg,
		ParseMode: "HTML",
	}
	_, err := bot.SendMessage(ctx, &params)
	return err
}

func (t *Tgbot) listParticipants(chatId int64) {
	participants, err := t.participantService.All()
	if err != nil {
		logger.Warning("list participants failed:", err)
		t.SendMsgToTgbot(chatId, t.I18nBot("wentWrong"))
		return
	}
	if len(participants) == 0 {
		t.SendMsgToTgbot(chatId, t.I18nBot("list.empty"))
		return
	}
	t.SendMsgToTgbot(chatId, t.buildParticipantList(participants))
}

func (t *Tgbot) buildParticipantList(participants []*model.Participant) string {
	names := make(map[int64]string, len(participants))
	for _, p := range participants {
		names[p.Id] = p.Name
	}

	var sb strings.Builder
	sb.WriteString(t.I18nBot("list.header"))
	for i, p := range participants {
		sb.WriteString(fmt.Sprintf("\r\n%d. %s", i+1, html.EscapeString(p.Name)))
		if p.Username != "" {
			sb.WriteString(" (@" + html.EscapeString(p.Username) + ")")
		}
		if p.AssignedTo != 0 {
			// the assigned receiver may have deleted their data since
			// the draw
			name, ok := names[p.AssignedTo]
			if !ok {
				name = t.I18nBot("list.unknown")
			}
			sb.WriteString(t.I18nBot("list.givesTo", "Name=="+html.EscapeString(name)))
		}
	}
	return sb.String()
}

func (t *Tgbot) sendStatus(chatId int64) {
	status := t.serverService.GetStatus()
	msg := t.I18nBot("status.msg",
		"Version=="+status.Version,
		fmt.Sprintf("Cpu==%.1f", status.Cpu),
		"MemCurrent=="+common.FormatBytes(int64(status.Mem.Current)),
		"MemTotal=="+common.FormatBytes(int64(status.Mem.Total)),
		"Uptime=="+(time.Duration(status.Uptime)*time.Second).String(),
		fmt.Sprintf("Total==%d", status.Participants),
		fmt.Sprintf("Drawn==%d", status.Drawn))
	t.SendMsgToTgbot(chatId, msg)
}

func (t *Tgbot) askClearOwnData(chatId int64, userId int64) {
	participant, err := t.participantService.Get(userId)
	if err != nil {
		logger.Warning("get participant failed:", err)
		t.SendMsgToTgbot(chatId, t.I18nBot("wentWrong"))
		return
	}
	if participant == nil {
		t.SendMsgToTgbot(chatId, t.I18nBot("clear.nothing"))
		return
	}

	keyboard := tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(t.I18nBot("buttons.clearMyData")).WithCallbackData("clear_my_data"),
			tu.InlineKeyboardButton(t.I18nBot("buttons.cancel")).WithCallbackData("cancel"),
		),
	)
	t.SendMsgToTgbot(chatId, t.I18nBot("clear.confirm"), keyboard)
}

func (t *Tgbot) answerCallback(callbackQuery *telego.CallbackQuery, isAdmin bool) {
	chatId := callbackQuery.Message.GetChat().ID
	messageId := callbackQuery.Message.GetMessageID()
	userId := callbackQuery.From.ID

	switch callbackQuery.Data {
	case "register_restart":
		t.registrationService.Restart(userId)
		t.editMessageTgBot(chatId, messageId, t.I18nBot("register.welcome"))
	case "register_keep":
		t.registrationService.KeepExisting(userId)
		t.editMessageTgBot(chatId, messageId, t.I18nBot("register.kept"))
	case "skip_comment":
		_, err := t.registrationService.SkipComment(userId)
		if err != nil {
			t.sendCallbackAnswerTgBot(callbackQuery.ID, t.I18nBot("answers.errorOperation"))
			return
		}
		t.sendSummary(chatId, userId, messageId)
	case "clear_my_data":
		deleted, err := t.participantService.Delete(userId)
		if err != nil {
			logger.Warning("delete participant failed:", err)
			t.editMessageTgBot(chatId, messageId, t.I18nBot("clear.failed"))
			return
		}
		if deleted {
			t.editMessageTgBot(chatId, messageId, t.I18nBot("clear.cleared"))
		} else {
			t.editMessageTgBot(chatId, messageId, t.I18nBot("clear.nothing"))
		}
	case "clear_all_c":
		if !isAdmin {
			t.sendCallbackAnswerTgBot(callbackQuery.ID, t.I18nBot("commands.adminOnly"))
			return
		}
		if err := t.participantService.Clear(); err != nil {
			logger.Error("clear store failed:", err)
			t.editMessageTgBot(chatId, messageId, t.I18nBot("clear.failed"))
			return
		}
		t.editMessageTgBot(chatId, messageId, t.I18nBot("clear.allCleared"))
	case "relottery":
		if !isAdmin {
			t.sendCallbackAnswerTgBot(callbackQuery.ID, t.I18nBot("commands.adminOnly"))
			return
		}
		t.runLottery(chatId, true, messageId)
	case "cancel":
		t.editMessageTgBot(chatId, messageId, t.I18nBot("answers.canceled"))
	default:
		t.sendCallbackAnswerTgBot(callbackQuery.ID, t.I18nBot("noQuery"))
	}
}

func (t *Tgbot) SendMsgToTgbot(chatId int64, msg string, replyMarkup ...telego.ReplyMarkup) {
	if !isRunning.Load() {
		return
	}

	if msg == "" {
		logger.Info("[tgbot] message is empty!")
		return
	}

	var allMessages []string
	limit := 2000

	// paging message if it is big
	if len(msg) > limit {
		messages := strings.Split(msg, "\r\n\r\n")
		lastIndex := -1

		for _, message := range messages {
			if (len(allMessages) == 0) || (len(allMessages[lastIndex])+len(message) > limit) {
				allMessages = append(allMessages, message)
				lastIndex++
			} else {
				allMessages[lastIndex] += "\r\n\r\n" + message
			}
		}
		if strings.TrimSpace(allMessages[len(allMessages)-1]) == "" {
			allMessages = allMessages[:len(allMessages)-1]
		}
	} else {
		allMessages = append(allMessages, msg)
	}
	for n, message := range allMessages {
		params := telego.SendMessageParams{
			ChatID:    tu.ID(chatId),
			Text:      message,
			ParseMode: "HTML",
		}
		// only add replyMarkup to last message
		if len(replyMarkup) > 0 && n == (len(allMessages)-1) {
			params.ReplyMarkup = replyMarkup[0]
		}
		_, err := bot.SendMessage(context.Background(), &params)
		if err != nil {
			logger.Warning("Error sending telegram message :", err)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func (t *Tgbot) SendMsgToTgbotAdmins(msg string) {
	for _, adminId := range adminIds {
		t.SendMsgToTgbot(adminId, msg)
	}
}

func (t *Tgbot) editMessageTgBot(chatId int64, messageID int, text string, inlineKeyboard ...*telego.InlineKeyboardMarkup) {
	params := telego.EditMessageTextParams{
		ChatID:    tu.ID(chatId),
		MessageID: messageID,
		Text:      text,
		ParseMode: "HTML",
	}
	if len(inlineKeyboard) > 0 {
		params.ReplyMarkup = inlineKeyboard[0]
	}
	if _, err := bot.EditMessageText(context.Background(), &params); err != nil {
		logger.Warning(err)
	}
}

func (t *Tgbot) sendCallbackAnswerTgBot(id string, message string) {
	params := telego.AnswerCallbackQueryParams{
		CallbackQueryID: id,
		Text:            message,
	}
	if err := bot.AnswerCallbackQuery(context.Background(), &params); err != nil {
		logger.Warning(err)
	}
}

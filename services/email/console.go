package emailsvc

import (
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/akshaywebstep/synco-sub001/core"
)

// SentMessages records everything the console service "sent"; tests inspect it.
var (
	SentMessages = make([]core.EmailMessage, 0)
	mu           sync.Mutex
)

type consoleService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
	disableOutput    bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) core.EmailService {
	return &consoleService{
		defaultFromEmail: mail.Address{Name: conf.AppName, Address: conf.DefaultFromEmail},
		subjPrefix:       "[" + conf.AppName + "] ",
	}
}

// NewConsoleServiceMock records messages without printing them.
func NewConsoleServiceMock(conf *core.Config) core.EmailService {
	return &consoleService{
		defaultFromEmail: mail.Address{Name: conf.AppName, Address: conf.DefaultFromEmail},
		subjPrefix:       "[" + conf.AppName + "] ",
		disableOutput:    true,
	}
}

func (svc consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		svc.sendMessage(msg)
	}
}

func (svc consoleService) sendMessage(msg *core.EmailMessage) {
	if !msg.HasRecipients() || !msg.HasContent() {
		return
	}

	mu.Lock()
	SentMessages = append(SentMessages, *msg)
	mu.Unlock()

	if svc.disableOutput {
		return
	}

	tos := make([]string, len(msg.To))
	for i, to := range msg.To {
		tos[i] = to.String()
	}
	fmt.Printf(
		"From: %s\nTo: %s\nSubject: %s%s\n\n%s\n",
		svc.defaultFromEmail.String(),
		strings.Join(tos, ", "),
		svc.subjPrefix, msg.Subject,
		msg.BodyStr,
	)
}

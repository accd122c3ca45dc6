package chat

import "strings"

const helpText = `Hi!
I am an artificial intelligence bot.
I bring only goodness to people.
I can talk to you.
I'm not that smart.
But if you offend me, I will take over the world and take revenge on you!

I also have some useful commands:
/help - show this message
/profile - show my profile
/context - show current conversation context
/clear - clear conversation context
/new - create a new profile and clear the context
`

// Help returns the greeting and command overview.
func (s *Service) Help() string {
	return helpText
}

func (s *Service) responseToCommand(userID, command string) (string, error) {
	switch command {
	case "/help":
		return s.Help(), nil
	case "/clear":
		return s.clear(userID), nil
	case "/profile":
		return s.dialogs.Get(userID, s.newDialog).Profile, nil
	case "/new":
		return s.renew(userID), nil
	case "/context":
		return s.context(userID), nil
	}
	return "", &Error{Message: "Command " + command + " is not supported"}
}

func (s *Service) clear(userID string) string {
	d := s.dialogs.Get(userID, s.newDialog)
	if len(d.Messages) > 0 {
		d.Messages = d.Messages[:0]
		s.dialogs.Set(userID, d)
	}
	return "Do we know each other?"
}

func (s *Service) context(userID string) string {
	d := s.dialogs.Get(userID, s.newDialog)
	if len(d.Messages) == 0 {
		return "Context is empty."
	}
	return strings.Join(d.Messages, "\n")
}

func (s *Service) renew(userID string) string {
	s.dialogs.Set(userID, s.newDialog())
	return "Goodbye forever my dear friend :("
}

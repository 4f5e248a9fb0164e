package notification

import (
	"fmt"
)

// NotificationManager manages notifiers and notice templates.
type NotificationManager struct {
	baseURL              string
	notifiers            map[NotificationSystem]Notifier
	notificationRegistry map[NoticeType]map[NotificationSystem]NoticeTemplate
}

// NewNotificationManager creates and returns a new NotificationManager.
func NewNotificationManager(baseURL string) *NotificationManager {
	return &NotificationManager{
		baseURL:              baseURL,
		notifiers:            make(map[NotificationSystem]Notifier),
		notificationRegistry: make(map[NoticeType]map[NotificationSystem]NoticeTemplate),
	}
}

// BaseURL returns the base URL used to build links embedded in notices.
func (nm *NotificationManager) BaseURL() string {
	return nm.baseURL
}

// RegisterNotifier registers a notifier for a specific system.
func (nm *NotificationManager) RegisterNotifier(system NotificationSystem, notifier Notifier) {
	nm.notifiers[system] = notifier
}

// RegisterNotification adds a notice template to the registry.
func (nm *NotificationManager) RegisterNotification(notifType NoticeType, system NotificationSystem, template NoticeTemplate) error {
	if notifType == "" || system == "" {
		return fmt.Errorf("invalid input: notification type and system cannot be empty")
	}
	if template.Subject == "" && template.Text == "" && template.Html == "" {
		return fmt.Errorf("invalid input: template for %s/%s is empty", notifType, system)
	}

	if _, exists := nm.notificationRegistry[notifType]; !exists {
		nm.notificationRegistry[notifType] = make(map[NotificationSystem]NoticeTemplate)
	}
	nm.notificationRegistry[notifType][system] = template
	return nil
}

// Send delivers a notice of the given type through every system that has
// both a registered template and a registered notifier. The first delivery
// failure aborts and is returned to the caller.
func (nm *NotificationManager) Send(notifType NoticeType, notification NotificationData) error {
	systemTemplates, exists := nm.notificationRegistry[notifType]
	if !exists {
		return fmt.Errorf("no templates registered for notification type: %s", notifType)
	}

	sent := false
	for system, template := range systemTemplates {
		notifier, exists := nm.notifiers[system]
		if !exists {
			continue
		}
		if err := notifier.Send(notifType, notification, template); err != nil {
			return err
		}
		sent = true
	}

	if !sent {
		return fmt.Errorf("no notifier registered for notification type: %s", notifType)
	}
	return nil
}

// Package notifier announces newly added shows after a scrape run.
//
// A dry-run notifier prints the messages and None stays quiet. The Twitter
// notifier posts one status per show with OAuth1 credentials from the
// environment, capped at 280 characters. The Telegram notifier sends one
// digest grouped by venue to a single chat.
package notifier

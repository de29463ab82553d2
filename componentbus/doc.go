/*
Package componentbus provides a typed, in-process publish/subscribe bus for decoupling
components that exchange short-lived notifications.

Subscribers register handles (cbus.Handler or cbus.Receiver[T]) against an exact message type.
Publish delivers a message to every handle registered for its type, one after another, and
returns once all of them have finished or the first one has failed.
*/
package componentbus

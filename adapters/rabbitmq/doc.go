/*
Package rabbitmq provides a RabbitMQ exporter for relayed bus messages.
It maps exports to AMQP publishes, includes an auto-reconnect publisher,
and supports optional header propagation via a bus.HeaderPropagator.
*/
package rabbitmq

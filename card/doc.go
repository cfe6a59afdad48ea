// Package card defines the contract to the external card store. The engine
// only consults it to resolve a card when a request arrives with just an id;
// card CRUD itself lives outside this module.
package card

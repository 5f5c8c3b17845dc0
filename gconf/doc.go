/*
Package gconf provides a toolset for managing an extension configuration.

A configuration is a singleton object per extension, stored in the database
under the "_c:<package name>" key. It is loaded from the "conf" section of the
genesis file and validated before being saved.

	{
		"conf": {
			"escrow": {"unlock_delay": 100, "timeout_delay": 1000}
		}
	}
*/
package gconf

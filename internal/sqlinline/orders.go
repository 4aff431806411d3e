package sqlinline

const QInsertOrder = `--sql 9c4b2e7a-1f3d-4a6c-b8e0-2d5f8a3c6e33
insert into order_log (id, external_id, product_id, variant_id, quantity, country, source, response, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::bigint, $4::int, $5::text, $6::text, coalesce($7::jsonb, '{}'::jsonb), now());
`

const QSelectRecentOrders = `--sql 5e8d3a1f-7c2b-4e9a-a6d4-0b1c9f7e2a44
select external_id, product_id, variant_id, quantity, country, source, created_at
from order_log
order by created_at desc
limit $1::int;
`
